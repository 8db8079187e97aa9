package render

import (
	"fmt"
	"io"

	"github.com/vango-dev/dropdown/pkg/vdom"
)

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Title is the page title.
	Title string

	// Lang is the language attribute for the html element. Defaults to "en".
	Lang string

	// Styles contains inline CSS.
	Styles []string

	// RootID is the id of the element that wraps Body. The thin client
	// replaces this element's content on every render message.
	RootID string

	// Body is the root VNode for the page content.
	Body *vdom.VNode

	// ClientScript is inline JavaScript appended to the body.
	ClientScript string
}

// RenderPage renders a complete HTML document to the given writer.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}
	rootID := page.RootID
	if rootID == "" {
		rootID = "root"
	}

	if _, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html lang=\"%s\">\n<head>\n", escapeAttr(lang)); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "<meta charset=\"utf-8\">\n"); err != nil {
		return err
	}
	if page.Title != "" {
		if _, err := fmt.Fprintf(w, "<title>%s</title>\n", escapeHTML(page.Title)); err != nil {
			return err
		}
	}
	for _, css := range page.Styles {
		if _, err := fmt.Fprintf(w, "<style>%s</style>\n", css); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "</head>\n<body>\n<div id=\"%s\">", escapeAttr(rootID)); err != nil {
		return err
	}
	if err := r.RenderToWriter(w, page.Body); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "</div>\n"); err != nil {
		return err
	}
	if page.ClientScript != "" {
		if _, err := fmt.Fprintf(w, "<script>%s</script>\n", page.ClientScript); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</body>\n</html>\n")
	return err
}
