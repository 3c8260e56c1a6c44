// Package export renders the logbook into portable formats.
package export

import (
	"encoding/csv"
	"fmt"
	"strings"

	"scobro-sync/internal/store"
)

// typeMarker returns the marker used for an item type in Markdown exports.
func typeMarker(itemType string) string {
	switch itemType {
	case "Action":
		return "🔴"
	case "Decision":
		return "🔵"
	case "Note":
		return "🟢"
	case "Meeting":
		return "🟣"
	default:
		return "📝"
	}
}

// CSV renders entries as comma-separated rows, one row per item. Quoting
// follows the CSV convention (embedded quotes doubled), not Go escaping.
func CSV(entries []store.EntryWithItems) string {
	var b strings.Builder
	w := csv.NewWriter(&b)
	w.Write([]string{"Date", "Time", "Type", "Content", "Project", "Tags", "Jira", "People"})

	for _, e := range entries {
		date := e.Entry.Timestamp.Format("2006-01-02")
		clock := e.Entry.Timestamp.Format("15:04:05")

		for _, item := range e.Items {
			w.Write([]string{
				date,
				clock,
				item.Item.ItemType,
				item.Item.Content,
				item.Item.Project,
				joinTags(item.Tags, ";"),
				joinRefs(item.IssueRefs, ";"),
				joinPeople(item.People, ";"),
			})
		}
	}
	w.Flush()
	return b.String()
}

// Markdown renders entries grouped by timestamp with per-item metadata.
func Markdown(entries []store.EntryWithItems) string {
	var b strings.Builder
	b.WriteString("# ScoBro Logbook Export\n\n")

	for _, e := range entries {
		fmt.Fprintf(&b, "## %s %s\n\n",
			e.Entry.Timestamp.Format("2006-01-02"),
			e.Entry.Timestamp.Format("15:04:05"))

		for _, item := range e.Items {
			fmt.Fprintf(&b, "### %s %s\n", typeMarker(item.Item.ItemType), item.Item.ItemType)
			fmt.Fprintf(&b, "%s\n\n", item.Item.Content)

			if item.Item.Project != "" {
				fmt.Fprintf(&b, "**Project:** 📂 %s\n\n", item.Item.Project)
			}
			if len(item.Tags) > 0 {
				fmt.Fprintf(&b, "**Tags:** 🏷 %s\n\n", joinTags(item.Tags, ", "))
			}
			if len(item.IssueRefs) > 0 {
				fmt.Fprintf(&b, "**Jira:** 🧩 %s\n\n", joinRefs(item.IssueRefs, ", "))
			}
			if len(item.People) > 0 {
				fmt.Fprintf(&b, "**People:** 👤 %s\n\n", joinPeople(item.People, ", "))
			}
			b.WriteString("---\n\n")
		}
	}
	return b.String()
}

func joinTags(tags []store.Tag, sep string) string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	return strings.Join(names, sep)
}

func joinPeople(people []store.Person, sep string) string {
	names := make([]string, len(people))
	for i, p := range people {
		names[i] = p.Name
	}
	return strings.Join(names, sep)
}

func joinRefs(refs []store.IssueRef, sep string) string {
	keys := make([]string, len(refs))
	for i, r := range refs {
		keys[i] = r.IssueKey
	}
	return strings.Join(keys, sep)
}
