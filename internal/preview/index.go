package preview

import "html/template"

type indexData struct {
	Title   string
	Treemap bool
	Graph   bool
}

// The SVG documents carry their own scripts; inserted markup does not run
// them, so each script element is re-created after insertion.
var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body{margin:0;padding:24px;font-family:system-ui,sans-serif;background:#fff;color:#222}
h1{font-size:18px;font-weight:600;margin:0 0 16px}
section{margin-bottom:32px}
h2{font-size:14px;font-weight:500;color:#666;margin:0 0 8px}
.error{color:#b33;font-size:13px}
svg{max-width:100%;height:auto}
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{if .Treemap}}<section><h2>Treemap</h2><div id="treemap"></div></section>{{end}}
{{if .Graph}}<section><h2>Co-occurrence</h2><div id="graph"></div></section>{{end}}
{{if not (or .Treemap .Graph)}}<p class="error">Nothing to show: configure treemap attributes or graph fields.</p>{{end}}
<script>
(function() {
  const views = [{{if .Treemap}}'treemap',{{end}}{{if .Graph}}'graph',{{end}}];

  async function load(id) {
    const el = document.getElementById(id);
    const res = await fetch('/' + id, { cache: 'no-store' });
    const body = await res.text();
    if (!res.ok) {
      el.innerHTML = '';
      const p = document.createElement('p');
      p.className = 'error';
      p.textContent = body;
      el.appendChild(p);
      return;
    }
    el.innerHTML = body;
    el.querySelectorAll('script').forEach(old => {
      const s = document.createElement('script');
      s.textContent = old.textContent;
      old.replaceWith(s);
    });
  }

  function refresh() { views.forEach(load); }

  document.addEventListener('tablescope:select', evt => {
    const name = evt.detail.key || evt.detail.name || '';
    fetch('/select?name=' + encodeURIComponent(name), { method: 'POST' });
  });

  document.addEventListener('tablescope:dragend', evt => {
    fetch('/drag', {
      method: 'POST',
      headers: { 'Content-Type': 'application/json' },
      body: JSON.stringify({ name: evt.detail.name, x: evt.detail.x, y: evt.detail.y })
    });
  });

  const events = new EventSource('/events');
  events.addEventListener('reload', refresh);
  events.addEventListener('select', () => { if (views.includes('treemap')) load('treemap'); });
  events.addEventListener('layout', () => { if (views.includes('graph')) load('graph'); });

  refresh();
})();
</script>
</body>
</html>
`))
