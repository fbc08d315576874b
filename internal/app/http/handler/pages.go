package handler

import (
	"html/template"
)

var layout = template.Must(template.New("layout").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Mergington High School Activities</title>
</head>
<body>
<header>
<h1>Mergington High School</h1>
<h2>Extracurricular Activities</h2>
</header>
<main>
{{block "content" .}}{{end}}
</main>
</body>
</html>
`))

var boardPage = template.Must(template.Must(layout.Clone()).Parse(`{{define "content"}}
{{.Board}}
<form method="post" action="/refresh"><button type="submit">Refresh</button></form>
<script>
(function () {
  if (!window.EventSource) return;
  var es = new EventSource("/events");
  es.addEventListener("board", function (e) {
    var current = document.getElementById("board");
    if (current) current.outerHTML = e.data;
  });
})();
</script>
{{end}}`))

var confirmPage = template.Must(template.Must(layout.Clone()).Parse(`{{define "content"}}
<section id="confirm-removal">
<p>{{.Prompt}}</p>
<form method="post" action="/remove">
<input type="hidden" name="activity" value="{{.Activity}}">
<input type="hidden" name="email" value="{{.Email}}">
<input type="hidden" name="confirmed" value="yes">
<button type="submit">Remove</button>
<a href="/">Cancel</a>
</form>
</section>
{{end}}`))

type boardPageData struct {
	// Board is markup produced by the board renderer, which escapes all text.
	Board template.HTML
}

type confirmPageData struct {
	Prompt   string
	Activity string
	Email    string
}
