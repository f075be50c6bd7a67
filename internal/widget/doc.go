// Package widget implements the number form used twice on the dashboard: a
// numeric field, a submit control and a result panel bound to one backend
// endpoint.
//
// A Model owns its State exclusively. Input changes only through key edits;
// Result changes only when a successful response is applied. Requests run as
// tea.Cmds and come back as ResponseMsg; whichever response arrives last is
// the one displayed. Responses addressed to a previous mount are discarded.
package widget
