// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"taskboard/internal/forms"
	"taskboard/internal/service"
)

// TimestampLayout is used for activity and account timestamps.
const TimestampLayout = "2006-01-02 15:04"

// FormatTask formats a task line.
// Format: "{N:>4}  {STATUS:<11}  {TITLE}[  due {DD/MM/YYYY}]\n"
func FormatTask(w io.Writer, num int, task service.Task) {
	line := fmt.Sprintf("%4d  %-11s  %s", num, task.Status, normalizeTitle(task.Title))
	if task.DueDate != nil {
		line += "  due " + forms.FormatDueDate(*task.DueDate)
	}
	fmt.Fprintln(w, line)
}

// FormatSubTasks prints subtasks indented under their task.
func FormatSubTasks(w io.Writer, subs []string) {
	for _, s := range subs {
		fmt.Fprintf(w, "        - %s\n", normalizeTitle(s))
	}
}

// FormatTaskDetail prints every field of a task.
func FormatTaskDetail(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "ID:          %s\n", task.ID)
	fmt.Fprintf(w, "Title:       %s\n", normalizeTitle(task.Title))
	fmt.Fprintf(w, "Status:      %s\n", task.Status.Title())
	if task.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", oneLine(task.Description))
	}
	if task.DueDate != nil {
		fmt.Fprintf(w, "Due:         %s\n", forms.FormatDueDate(*task.DueDate))
	}
	if len(task.SubTasks) > 0 {
		fmt.Fprintln(w, "Subtasks:")
		for _, s := range task.SubTasks {
			fmt.Fprintf(w, "  - %s\n", normalizeTitle(s))
		}
	}
}

// FormatUser formats a user line for the admin table.
// Format: "{N:>4}  {ROLE:<5}  {NAME} <{EMAIL}>\n"
func FormatUser(w io.Writer, num int, user service.User) {
	role := user.Role
	if role == "" {
		role = service.RoleUser
	}
	fmt.Fprintf(w, "%4d  %-5s  %s <%s>\n", num, role, normalizeName(user.Name), user.Email)
}

// FormatProfile prints the signed-in user.
func FormatProfile(w io.Writer, user service.User) {
	fmt.Fprintf(w, "Name:   %s\n", normalizeName(user.Name))
	fmt.Fprintf(w, "Email:  %s\n", user.Email)
	role := user.Role
	if role == "" {
		role = service.RoleUser
	}
	fmt.Fprintf(w, "Role:   %s\n", role)
	if user.ProfileImage != "" {
		fmt.Fprintf(w, "Avatar: %s\n", user.ProfileImage)
	}
	if user.CreatedAt != nil {
		fmt.Fprintf(w, "Joined: %s\n", user.CreatedAt.UTC().Format(TimestampLayout))
	}
}

// FormatActivity formats an activity log line.
// Format: "{TIMESTAMP}  {USER}  {ACTION}[  {DETAILS}]\n"
func FormatActivity(w io.Writer, entry service.ActivityEntry) {
	ts := strings.Repeat("-", len(TimestampLayout))
	if entry.CreatedAt != nil {
		ts = entry.CreatedAt.UTC().Format(TimestampLayout)
	}
	user := entry.User
	if user == "" {
		user = "-"
	}
	line := fmt.Sprintf("%s  %s  %s", ts, user, entry.Action)
	if entry.Details != "" {
		line += "  " + oneLine(entry.Details)
	}
	fmt.Fprintln(w, line)
}

// FormatCacheNote reports the age of a cached listing.
func FormatCacheNote(w io.Writer, syncedAt time.Time) {
	fmt.Fprintf(w, "(cached %s)\n", syncedAt.UTC().Format(TimestampLayout))
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = oneLine(title)
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

func normalizeName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "(unnamed)"
	}
	return oneLine(name)
}

func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
