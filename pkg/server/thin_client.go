package server

// thinClient is inlined into every page. It forwards DOM events to the
// session as JSON and swaps in each render message.
//
// Clicks and keydowns are always sent so the server can run outside-click
// and document-key handlers. Mouse enter/leave are derived from
// mouseover/mouseout and only sent for elements marked data-on-mouseenter
// or data-on-mouseleave.
const thinClient = `(function () {
  "use strict";
  var root = document.getElementById("root");
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + "/_ws");
  var seq = 0;
  var open = false;

  function send(ev) {
    if (!open) return;
    ev.seq = ++seq;
    ws.send(JSON.stringify(ev));
  }

  function hidOf(el) {
    var n = el && el.closest ? el.closest("[data-hid]") : null;
    return n ? n.getAttribute("data-hid") : "";
  }

  function mods(e) {
    return (e.ctrlKey ? 1 : 0) | (e.shiftKey ? 2 : 0) | (e.altKey ? 4 : 0) | (e.metaKey ? 8 : 0);
  }

  ws.onopen = function () { open = true; };
  ws.onclose = function () { open = false; };
  ws.onmessage = function (m) {
    var msg = JSON.parse(m.data);
    if (msg.type === "render") {
      root.innerHTML = msg.html;
    } else if (msg.type === "error") {
      console.warn("dropdown:", msg.code, msg.message);
    }
  };

  document.addEventListener("click", function (e) {
    send({ type: "click", hid: hidOf(e.target), x: e.clientX, y: e.clientY, mods: mods(e) });
  });

  document.addEventListener("keydown", function (e) {
    send({ type: "keydown", hid: hidOf(e.target), key: e.key, code: e.code, mods: mods(e) });
  });

  function crossing(type, attr) {
    return function (e) {
      var el = e.target;
      while (el && el !== document) {
        if (el.hasAttribute && el.hasAttribute(attr) && !el.contains(e.relatedTarget)) {
          send({ type: type, hid: el.getAttribute("data-hid"), x: e.clientX, y: e.clientY });
        }
        el = el.parentNode;
      }
    };
  }
  document.addEventListener("mouseover", crossing("mouseenter", "data-on-mouseenter"));
  document.addEventListener("mouseout", crossing("mouseleave", "data-on-mouseleave"));
})();`
