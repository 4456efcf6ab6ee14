package main

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// itemClipboardText is what 'y' copies for the selected item: the note text
// verbatim, or a one-line evidence reference.
func itemClipboardText(it BoardItem) string {
	if it.Kind == KindEvidence && it.Evidence != nil {
		return fmt.Sprintf("Evidence #%d (%s): %s", it.Evidence.ID, it.Evidence.Type, it.Evidence.Title)
	}
	return it.NoteText
}

func copyItemToClipboard(it BoardItem) error {
	return clipboard.WriteAll(itemClipboardText(it))
}
