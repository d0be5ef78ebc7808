package tui

import (
	"strings"
)

func (m appModel) renderProfile() string {
	id := m.session.Identity()
	if id == nil {
		if m.session.Loading() {
			return styleMuted().Render("resolving session…")
		}
		return styleError().Render(firstNonEmpty(m.session.LastError(), "no session"))
	}

	editing := m.pFirst.Focused() || m.pLast.Focused()

	rows := []string{
		styleHeading().Render("Profile"),
		"",
		formField("Email", id.Email, false),
		formField("Role", string(id.Role), false),
	}
	if id.Group != nil {
		rows = append(rows, formField("Group", id.Group.Name+" ("+id.Group.Slug+")", false))
	}
	verified := "no"
	if id.EmailVerified {
		verified = "yes"
	}
	rows = append(rows,
		formField("Verified", verified, false),
		formField("Theme", m.st.Theme(), false),
		"",
	)

	if editing {
		rows = append(rows,
			formField("First name", m.pFirst.View(), m.pFirst.Focused()),
			formField("Last name", m.pLast.View(), m.pLast.Focused()),
			"",
			styleMuted().Render("enter: save   tab: switch field   esc: discard"),
		)
		if m.profileBusy {
			rows = append(rows, styleMuted().Render("saving…"))
		}
	} else {
		rows = append(rows,
			formField("First name", id.FirstName, false),
			formField("Last name", id.LastName, false),
			"",
			styleMuted().Render("e: edit names   t: toggle theme   v: request verification email   o: sign out"),
		)
	}

	return strings.Join(rows, "\n")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
