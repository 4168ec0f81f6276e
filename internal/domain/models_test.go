package domain

import (
	"testing"

	"github.com/goccy/go-json"
)

// The attribute constants address user documents by key, so every one of
// them must be a key the User struct actually writes.
func TestUserKeysMatchAttributeConstants(t *testing.T) {
	did := "d1"
	b, err := json.Marshal(User{ID: 1, CurrentDialogID: &did})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	attrs := []string{
		AttrID, AttrChatID, AttrUsername, AttrFirstName, AttrLastName,
		AttrLastInteraction, AttrFirstSeen, AttrCurrentDialogID,
		AttrCurrentChatMode, AttrNUsedTokens,
	}
	if len(doc) != len(attrs) {
		t.Fatalf("user document has %d keys, want %d: %v", len(doc), len(attrs), doc)
	}
	for _, k := range attrs {
		if _, ok := doc[k]; !ok {
			t.Errorf("key %q missing from user document", k)
		}
	}
}

func TestUser_NilCurrentDialogIsNull(t *testing.T) {
	b, err := json.Marshal(User{ID: 7})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v, ok := doc[AttrCurrentDialogID]; !ok || v != nil {
		t.Fatalf("current_dialog_id = %v (present=%v), want null", v, ok)
	}
}
