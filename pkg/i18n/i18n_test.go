package i18n

import (
	"testing"
	"testing/fstest"

	serrors "github.com/matzehuels/setlist/pkg/errors"
)

func TestDefaultLocales(t *testing.T) {
	got := Default().Locales()
	if len(got) != 2 || got[0] != "en-US" || got[1] != "ko-KR" {
		t.Errorf("Locales() = %v", got)
	}
}

func TestLocalesDefineSameKeys(t *testing.T) {
	b := Default()
	for key := range b.messages[BaseLocale] {
		for _, loc := range b.Locales() {
			if !b.Has(loc, key) {
				t.Errorf("locale %s is missing %q", loc, key)
			}
		}
	}
}

func TestLabelsNegotiation(t *testing.T) {
	b := Default()
	tests := []struct {
		in   string
		want string
	}{
		{"en-US", "en-US"},
		{"ko-KR", "ko-KR"},
		{"ko", "ko-KR"},
		{"ko_KR", "ko-KR"},
		{"", "en-US"},
		{"not a locale", "en-US"},
		{"fr-FR", "en-US"},
	}
	for _, tt := range tests {
		if got := b.Labels(tt.in).Locale(); got != tt.want {
			t.Errorf("Labels(%q).Locale() = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCollectionTitle(t *testing.T) {
	en := Default().Labels("en-US")
	ko := Default().Labels("ko-KR")

	tests := []struct {
		name                      string
		labels                    *Labels
		current, owner, ownerName string
		want                      string
	}{
		{"own collection", en, "42", "42", "mina", "My collection"},
		{"other user", en, "1", "42", "mina", "mina's collection"},
		{"signed out", en, "", "42", "mina", "mina's collection"},
		{"unknown name", en, "1", "42", "", "Collection"},
		{"signed out without name", en, "", "", "", "Collection"},
		{"korean own", ko, "7", "7", "", "나의 컬렉션"},
		{"korean other", ko, "", "7", "준", "준님의 컬렉션"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CollectionTitle(tt.labels, tt.current, tt.owner, tt.ownerName); got != tt.want {
				t.Errorf("CollectionTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLabelsFormatting(t *testing.T) {
	en := Default().Labels("en-US")
	if got := en.T(KeyPage, 2, 5); got != "Page 2 of 5" {
		t.Errorf("T(page) = %q", got)
	}
	if got := en.T("no.such.key"); got != "no.such.key" {
		t.Errorf("T(unknown) = %q", got)
	}
}

func TestEditKey(t *testing.T) {
	en := Default().Labels("en-US")
	key := EditKey("song-upload", PhaseFailure)
	if key != "edit.song_upload.failure" {
		t.Fatalf("EditKey = %q", key)
	}
	if got := en.T(key); got != "Song upload failed." {
		t.Errorf("T(%s) = %q", key, got)
	}
}

func TestFallbackToBaseLocale(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/en-US.yaml": {Data: []byte("locale: en-US\nmessages:\n  a: \"A\"\n  b: \"B\"\n")},
		"locales/ko-KR.yaml": {Data: []byte("locale: ko-KR\nmessages:\n  a: \"가\"\n")},
	}
	b, err := Load(fsys)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	ko := b.Labels("ko-KR")
	if got := ko.T("a"); got != "가" {
		t.Errorf("T(a) = %q", got)
	}
	if got := ko.T("b"); got != "B" {
		t.Errorf("T(b) = %q, want base-locale fallback", got)
	}
}

func TestFallbackToBaseLocaleFormatsArgs(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/en-US.yaml": {Data: []byte("locale: en-US\nmessages:\n  collection.mine: \"My collection\"\n  collection.owner: \"%s's collection\"\n")},
		"locales/ko-KR.yaml": {Data: []byte("locale: ko-KR\nmessages:\n  collection.generic: \"컬렉션\"\n")},
	}
	b, err := Load(fsys)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	ko := b.Labels("ko")
	if ko.Locale() != "ko-KR" {
		t.Fatalf("Locale() = %q, want ko-KR", ko.Locale())
	}
	if got := ko.T(KeyCollectionMine); got != "My collection" {
		t.Errorf("T(%s) = %q, want base-locale text", KeyCollectionMine, got)
	}
	if got := ko.T(KeyCollectionOwner, "jun"); got != "jun's collection" {
		t.Errorf("T(%s) = %q", KeyCollectionOwner, got)
	}
	if b.Has("ko-KR", KeyCollectionMine) {
		t.Error("Has should report only keys the locale defines itself")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := map[string]fstest.MapFS{
		"empty":         {},
		"missing base":  {"locales/ko-KR.yaml": {Data: []byte("locale: ko-KR\nmessages:\n  a: \"가\"\n")}},
		"name mismatch": {"locales/en-US.yaml": {Data: []byte("locale: en-GB\nmessages:\n  a: \"A\"\n")}},
		"no messages":   {"locales/en-US.yaml": {Data: []byte("locale: en-US\n")}},
		"invalid yaml":  {"locales/en-US.yaml": {Data: []byte("locale: [\n")}},
	}
	for name, fsys := range tests {
		if _, err := Load(fsys); err == nil {
			t.Errorf("%s: Load() should fail", name)
		}
	}
}

func TestParseLocale(t *testing.T) {
	if _, err := ParseLocale("ko_KR"); err != nil {
		t.Errorf("ParseLocale(ko_KR): %v", err)
	}
	for _, bad := range []string{"", "  ", "!!"} {
		if _, err := ParseLocale(bad); !serrors.Is(err, serrors.ErrCodeInvalidLocale) {
			t.Errorf("ParseLocale(%q) error = %v", bad, err)
		}
	}
}
