package board

import (
	"fmt"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"activityboard/internal/domain/activity"
)

const (
	loadingText     = "Loading activities..."
	loadFailedText  = "Failed to load activities. Please try again later."
	emptyRosterText = "No participants yet"
	selectHint      = "-- Select an activity --"
	removeLabel     = "×"
	pendingLabel    = "..."
)

// Actions are the form targets embedded in the rendered board.
type Actions struct {
	Signup string
	Remove string
}

var DefaultActions = Actions{
	Signup: "/signup",
	Remove: "/remove",
}

// Render builds the board markup for s. It has no side effects; the returned
// tree is owned by the caller.
func Render(s ViewState, a Actions) *html.Node {
	root := element(atom.Div, attr("id", "board"))
	appendAll(root,
		section("Available Activities", renderList(s, a)),
		section("Sign Up for an Activity", renderForm(s, a)),
		renderMessage(s.Feedback),
	)
	return root
}

func renderList(s ViewState, a Actions) *html.Node {
	list := element(atom.Div, attr("id", "activities-list"))

	switch s.List {
	case ListLoading:
		appendAll(list, textElement(atom.P, loadingText))
	case ListFailed:
		appendAll(list, textElement(atom.P, loadFailedText))
	case ListReady:
		for _, act := range s.Catalog.Activities {
			appendAll(list, renderCard(s, act, a))
		}
	}
	return list
}

func renderCard(s ViewState, act activity.Activity, a Actions) *html.Node {
	card := element(atom.Div, attr("class", "activity-card"))

	appendAll(card,
		textElement(atom.H4, act.Name),
		textElement(atom.P, act.Description),
		labelled("Schedule:", act.Schedule),
		labelled("Availability:", fmt.Sprintf("%d spots left", act.SpotsLeft())),
	)

	roster := element(atom.Div, attr("class", "participants"))
	appendAll(roster,
		textElement(atom.H5, "Participants ("+strconv.Itoa(len(act.Participants))+")", attr("class", "participants-heading")),
	)

	ul := element(atom.Ul, attr("class", "participants-list"))
	if len(act.Participants) == 0 {
		appendAll(ul, textElement(atom.Li, emptyRosterText, attr("class", "empty")))
	}
	for _, email := range act.Participants {
		appendAll(ul, renderParticipant(act.Name, email, s.IsRemoving(act.Name, email), a))
	}
	appendAll(roster, ul)
	appendAll(card, roster)
	return card
}

func renderParticipant(activityName, email string, pending bool, a Actions) *html.Node {
	li := element(atom.Li)

	span := element(atom.Span, attr("class", "participant-email"))
	appendAll(span, textElement(atom.A, email, attr("href", "mailto:"+email)))

	form := element(atom.Form,
		attr("class", "remove-form"),
		attr("method", "post"),
		attr("action", a.Remove),
	)
	button := element(atom.Button,
		attr("type", "submit"),
		attr("class", "remove-participant"),
		attr("data-activity", activityName),
		attr("data-email", email),
		attr("aria-label", "Remove participant"),
	)
	label := removeLabel
	if pending {
		button.Attr = append(button.Attr, attr("disabled", ""))
		label = pendingLabel
	}
	appendAll(button, text(label))
	appendAll(form,
		hidden("activity", activityName),
		hidden("email", email),
		button,
	)

	appendAll(li, span, form)
	return li
}

func renderForm(s ViewState, a Actions) *html.Node {
	form := element(atom.Form,
		attr("id", "signup-form"),
		attr("method", "post"),
		attr("action", a.Signup),
	)

	emailGroup := element(atom.Div, attr("class", "form-group"))
	appendAll(emailGroup,
		textElement(atom.Label, "Student Email:", attr("for", "email")),
		element(atom.Input,
			attr("type", "email"),
			attr("id", "email"),
			attr("name", "email"),
			attr("required", ""),
			attr("placeholder", "your-email@mergington.edu"),
			attr("value", s.Form.Email),
		),
	)

	sel := element(atom.Select,
		attr("id", "activity"),
		attr("name", "activity"),
		attr("required", ""),
	)
	appendAll(sel, option("", selectHint, s.Form.Activity == ""))
	if s.List == ListReady {
		for _, name := range s.Catalog.Names() {
			appendAll(sel, option(name, name, name == s.Form.Activity))
		}
	}

	activityGroup := element(atom.Div, attr("class", "form-group"))
	appendAll(activityGroup,
		textElement(atom.Label, "Select Activity:", attr("for", "activity")),
		sel,
	)

	submit := element(atom.Button, attr("type", "submit"))
	if s.SubmitDisabled {
		submit.Attr = append(submit.Attr, attr("disabled", ""))
	}
	appendAll(submit, text("Sign Up"))

	appendAll(form, emailGroup, activityGroup, submit)
	return form
}

func renderMessage(f Feedback) *html.Node {
	class := string(f.Kind)
	if !f.Visible {
		if class == "" {
			class = "hidden"
		} else {
			class += " hidden"
		}
	}
	msg := element(atom.Div, attr("id", "message"), attr("class", class))
	if f.Text != "" {
		appendAll(msg, text(f.Text))
	}
	return msg
}

func section(heading string, body *html.Node) *html.Node {
	sec := element(atom.Section)
	appendAll(sec, textElement(atom.H3, heading), body)
	return sec
}

func labelled(label, value string) *html.Node {
	p := element(atom.P)
	appendAll(p, textElement(atom.Strong, label), text(" "+value))
	return p
}

func option(value, label string, selected bool) *html.Node {
	o := element(atom.Option, attr("value", value))
	if selected {
		o.Attr = append(o.Attr, attr("selected", ""))
	}
	appendAll(o, text(label))
	return o
}

func hidden(name, value string) *html.Node {
	return element(atom.Input,
		attr("type", "hidden"),
		attr("name", name),
		attr("value", value),
	)
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
}

func textElement(a atom.Atom, s string, attrs ...html.Attribute) *html.Node {
	n := element(a, attrs...)
	n.AppendChild(text(s))
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

func appendAll(parent *html.Node, children ...*html.Node) {
	for _, c := range children {
		parent.AppendChild(c)
	}
}
