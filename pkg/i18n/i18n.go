// Package i18n holds the user-facing labels of the collection view and the
// edit workflow.
//
// Labels live in YAML files under locales/, one file per locale, and are
// embedded into the binary. en-US is the base locale: keys missing from
// another locale fall back to it. Locale negotiation uses x/text/language,
// so "ko", "ko-KR" and "ko_KR" all select the Korean labels.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"

	serrors "github.com/matzehuels/setlist/pkg/errors"
)

// BaseLocale is the locale every other locale falls back to.
const BaseLocale = "en-US"

// Label keys used outside this package.
const (
	KeyCollectionMine    = "collection.mine"
	KeyCollectionOwner   = "collection.owner"
	KeyCollectionGeneric = "collection.generic"
	KeyCollectionEmpty   = "collection.empty"
	KeyLoadFailed        = "collection.load_failed"
	KeyLoading           = "collection.loading"
	KeyPage              = "collection.page"
	KeyUnknownUser       = "user.unknown"
	KeyArtist            = "card.artist"
	KeyDate              = "card.date"
	KeyTime              = "card.time"
	KeyPrice             = "card.price"
	KeyScale             = "card.scale"
	KeyHintSelect        = "card.hint.select"
	KeyHintFlip          = "card.hint.flip"
	KeyHintUnflip        = "card.hint.unflip"
	KeyOverlayHint       = "overlay.hint"
	KeyHelpQuit          = "help.quit"
	KeyHelpPage          = "help.page"
	KeyHelpRefresh       = "help.refresh"
	KeyEditTitle         = "edit.title"
)

//go:embed locales/*.yaml
var embedded embed.FS

type localeFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Bundle is a set of loaded locales.
type Bundle struct {
	tags     []language.Tag
	names    []string
	messages map[string]map[string]string
	builder  *catalog.Builder
	matcher  language.Matcher
}

var (
	defaultOnce   sync.Once
	defaultBundle *Bundle
)

// Default returns the bundle of embedded locales.
func Default() *Bundle {
	defaultOnce.Do(func() {
		b, err := Load(embedded)
		if err != nil {
			panic(err)
		}
		defaultBundle = b
	})
	return defaultBundle
}

// Load reads every locales/*.yaml file in fsys.
func Load(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locales: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no locale files found")
	}
	sort.Strings(paths)

	base := language.MustParse(BaseLocale)
	b := &Bundle{
		messages: map[string]map[string]string{},
		builder:  catalog.NewBuilder(catalog.Fallback(base)),
	}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		var f localeFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse %s: %w", p, err)
		}
		if err := b.add(p, f); err != nil {
			return nil, err
		}
	}
	if _, ok := b.messages[BaseLocale]; !ok {
		return nil, fmt.Errorf("base locale %s is not defined", BaseLocale)
	}
	if err := b.fillFromBase(); err != nil {
		return nil, err
	}

	// The base locale goes first so that it wins when nothing matches.
	sort.SliceStable(b.names, func(i, j int) bool { return b.names[i] == BaseLocale && b.names[j] != BaseLocale })
	for _, name := range b.names {
		b.tags = append(b.tags, language.MustParse(name))
	}
	b.matcher = language.NewMatcher(b.tags)
	return b, nil
}

func (b *Bundle) add(p string, f localeFile) error {
	name := strings.TrimSpace(f.Locale)
	if want := strings.TrimSuffix(path.Base(p), ".yaml"); name != want {
		return fmt.Errorf("%s: locale %q must match file name %q", p, name, want)
	}
	tag, err := language.Parse(name)
	if err != nil {
		return fmt.Errorf("%s: parse locale: %w", p, err)
	}
	if len(f.Messages) == 0 {
		return fmt.Errorf("%s: messages are required", p)
	}
	for key, msg := range f.Messages {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("%s: message key cannot be blank", p)
		}
		if err := b.builder.SetString(tag, key, msg); err != nil {
			return fmt.Errorf("%s: %s: %w", p, key, err)
		}
	}
	b.messages[name] = f.Messages
	b.names = append(b.names, name)
	return nil
}

// fillFromBase registers every base message a locale lacks under that
// locale, so lookups fall back per key. The catalog's own fallback only
// applies when no locale matches at all.
func (b *Bundle) fillFromBase() error {
	base := b.messages[BaseLocale]
	for _, name := range b.names {
		if name == BaseLocale {
			continue
		}
		tag := language.MustParse(name)
		own := b.messages[name]
		for key, msg := range base {
			if _, ok := own[key]; ok {
				continue
			}
			if err := b.builder.SetString(tag, key, msg); err != nil {
				return fmt.Errorf("%s: fallback %s: %w", name, key, err)
			}
		}
	}
	return nil
}

// Locales returns the loaded locale names, sorted.
func (b *Bundle) Locales() []string {
	out := append([]string(nil), b.names...)
	sort.Strings(out)
	return out
}

// Has reports whether locale defines key itself, without fallback.
func (b *Bundle) Has(locale, key string) bool {
	_, ok := b.messages[locale][key]
	return ok
}

// Labels returns the labels of the loaded locale closest to locale.
// Unknown or empty locales get the base locale.
func (b *Bundle) Labels(locale string) *Labels {
	tag := b.tags[0]
	if t, err := ParseLocale(locale); err == nil {
		_, idx, conf := b.matcher.Match(t)
		if conf != language.No {
			tag = b.tags[idx]
		}
	}
	return &Labels{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(b.builder)),
	}
}

// ParseLocale parses a BCP 47 locale, also accepting "_" as separator.
func ParseLocale(locale string) (language.Tag, error) {
	s := strings.ReplaceAll(strings.TrimSpace(locale), "_", "-")
	if s == "" {
		return language.Und, serrors.New(serrors.ErrCodeInvalidLocale, "locale cannot be empty")
	}
	t, err := language.Parse(s)
	if err != nil {
		return language.Und, serrors.Wrap(serrors.ErrCodeInvalidLocale, err, "invalid locale %q", locale)
	}
	return t, nil
}

// Labels formats messages for one locale.
type Labels struct {
	tag     language.Tag
	printer *message.Printer
}

// Locale returns the locale the labels are in.
func (l *Labels) Locale() string { return l.tag.String() }

// T returns the message for key formatted with args. Unknown keys are
// returned as is.
func (l *Labels) T(key string, args ...any) string {
	return l.printer.Sprintf(key, args...)
}

// CollectionTitle picks the heading of a collection view. currentUserID
// is the signed-in user ("" when signed out), ownerID and ownerName
// describe the collection's owner.
func CollectionTitle(l *Labels, currentUserID, ownerID, ownerName string) string {
	switch {
	case currentUserID != "" && currentUserID == ownerID:
		return l.T(KeyCollectionMine)
	case ownerName != "":
		return l.T(KeyCollectionOwner, ownerName)
	default:
		return l.T(KeyCollectionGeneric)
	}
}

// Phases of an edit workflow step, as used by [EditKey].
const (
	PhaseLoading = "loading"
	PhaseSuccess = "success"
	PhaseFailure = "failure"
)

// EditKey returns the key of the notification for one phase of an edit
// step, e.g. EditKey("song-upload", PhaseLoading) is
// "edit.song_upload.loading".
func EditKey(step, phase string) string {
	return "edit." + strings.ReplaceAll(step, "-", "_") + "." + phase
}
