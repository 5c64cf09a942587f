// Package cfg holds the editor's preference table: a flat set of typed,
// named settings (`:set grouping=4`) loadable from an rc file, flags and
// in-session `:set` commands. Grounded on
// GoogleCloudPlatform-gcsfuse/cfg, which faces the same problem of
// layering a typed config struct over several untyped sources; this
// package uses the same two libraries that package does (viper for
// layering, mapstructure for decoding) rather than hand-rolling a
// second config system next to the one the corpus already shows.
package cfg

import (
	"fmt"
	"os"
	"reflect"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Grouping is the number of bytes the hex pane displays as one
// whitespace-separated group: 1, 2, 4 or 8.
type Grouping int

const (
	Group1 Grouping = 1
	Group2 Grouping = 2
	Group4 Grouping = 4
	Group8 Grouping = 8
)

// Prefs is the decoded preference table (§6). Field names match the
// `:set` long names; mapstructure tags give the rc-file/viper keys.
type Prefs struct {
	// Grouping controls how many bytes the hex pane clusters together.
	Grouping Grouping `mapstructure:"grouping"`
	// PageSize is the number of bytes a full ctrl-f/ctrl-b page motion
	// advances, independent of how many are actually on screen.
	PageSize int64 `mapstructure:"pagesize"`
	// ReadOnly forces every file opened this session into read-only
	// mode regardless of the underlying file's own permissions.
	ReadOnly bool `mapstructure:"readonly"`
	// WrapScan makes `/` and `\` searches wrap past EOF/BOF back to the
	// cursor instead of stopping there.
	WrapScan bool `mapstructure:"wrapscan"`
	// ShowAscii toggles the side-by-side ASCII gutter in the display.
	ShowAscii bool `mapstructure:"showascii"`
}

// Defaults returns the built-in preference values, used when no rc file
// is present and no flags override them.
func Defaults() *Prefs {
	return &Prefs{
		Grouping:  Group4,
		PageSize:  512,
		ReadOnly:  false,
		WrapScan:  true,
		ShowAscii: true,
	}
}

// groupingHook decodes a "grouping" setting given as a plain number
// (from an rc file or `:set`) into the Grouping type, rejecting any
// value that is not one of 1/2/4/8.
func groupingHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if to != reflect.TypeOf(Grouping(0)) {
		return data, nil
	}
	switch v := data.(type) {
	case Grouping:
		return v, nil
	case int:
		return validateGrouping(v)
	case int64:
		return validateGrouping(int(v))
	case float64:
		return validateGrouping(int(v))
	default:
		return nil, fmt.Errorf("cfg: grouping must be a number, got %T", data)
	}
}

func validateGrouping(v int) (Grouping, error) {
	switch v {
	case 1, 2, 4, 8:
		return Grouping(v), nil
	default:
		return 0, fmt.Errorf("cfg: grouping must be one of 1, 2, 4, 8; got %d", v)
	}
}

// Load layers an rc file (if non-empty and present) over the built-in
// defaults and decodes the result into a Prefs. It mirrors
// gcsfuse/cfg.go's viper+mapstructure pipeline: viper owns source
// layering, mapstructure (with the grouping decode hook) owns typed
// decoding into the Go struct.
func Load(rcPath string) (*Prefs, error) {
	v := viper.New()
	d := Defaults()
	v.SetDefault("grouping", int(d.Grouping))
	v.SetDefault("pagesize", d.PageSize)
	v.SetDefault("readonly", d.ReadOnly)
	v.SetDefault("wrapscan", d.WrapScan)
	v.SetDefault("showascii", d.ShowAscii)

	if rcPath != "" {
		v.SetConfigFile(rcPath)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
				return nil, fmt.Errorf("cfg: reading %s: %w", rcPath, err)
			}
		}
	}

	var out Prefs
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(groupingHook),
		Result:     &out,
	})
	if err != nil {
		return nil, fmt.Errorf("cfg: building decoder: %w", err)
	}
	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("cfg: decoding settings: %w", err)
	}
	return &out, nil
}

// Set applies one `:set name=value` assignment to an already-loaded
// Prefs, reusing the same decode hook so `:set grouping=3` is rejected
// the same way a bad rc-file value would be.
func (p *Prefs) Set(name string, value interface{}) error {
	raw := map[string]interface{}{name: value}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.ComposeDecodeHookFunc(groupingHook),
		Result:           p,
		ErrorUnused:      false,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("cfg: building decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("cfg: setting %s: %w", name, err)
	}
	return nil
}
