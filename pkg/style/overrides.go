package style

import (
	"regexp"
	"strconv"

	"github.com/matzehuels/drawctl/pkg/errors"
)

// Style keys with typed, validated treatment.
const (
	KeyFillColor   = "fillColor"
	KeyStrokeColor = "strokeColor"
	KeyFontColor   = "fontColor"
	KeyStrokeWidth = "strokeWidth"
	KeyFontSize    = "fontSize"
	KeyFontStyle   = "fontStyle"
	KeyFontFamily  = "fontFamily"
	KeyOpacity     = "opacity"
)

// OverrideKeys lists the typed keys in the order [Overrides.Apply] emits them.
var OverrideKeys = []string{
	KeyFillColor, KeyStrokeColor, KeyFontColor, KeyStrokeWidth,
	KeyFontSize, KeyFontStyle, KeyFontFamily, KeyOpacity,
}

// Font style bits for [Overrides.FontStyle].
const (
	FontBold          = 1
	FontItalic        = 2
	FontUnderline     = 4
	FontStrikethrough = 8
)

// Overrides is the typed subset of style keys callers may set on nodes and
// edges. A nil field is "not supplied" and leaves the existing value alone.
type Overrides struct {
	FillColor   *string  `json:"fill_color,omitempty"`
	StrokeColor *string  `json:"stroke_color,omitempty"`
	FontColor   *string  `json:"font_color,omitempty"`
	StrokeWidth *float64 `json:"stroke_width,omitempty"`
	FontSize    *float64 `json:"font_size,omitempty"`
	FontStyle   *int     `json:"font_style,omitempty"`
	FontFamily  *string  `json:"font_family,omitempty"`
	Opacity     *int     `json:"opacity,omitempty"`
}

// Ptr returns a pointer to v. Handy for building Overrides literals.
func Ptr[T any](v T) *T { return &v }

var colorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Validate checks every supplied field and returns an INVALID_STYLE error
// for the first bad one.
func (o Overrides) Validate() error {
	colors := []struct {
		key   string
		value *string
	}{
		{KeyFillColor, o.FillColor},
		{KeyStrokeColor, o.StrokeColor},
		{KeyFontColor, o.FontColor},
	}
	for _, c := range colors {
		if c.value != nil && !validColor(*c.value) {
			return errors.New(errors.ErrCodeInvalidStyle, "%s: invalid color %q (want #RGB, #RRGGBB, none or default)", c.key, *c.value)
		}
	}
	if o.StrokeWidth != nil && *o.StrokeWidth < 0 {
		return errors.New(errors.ErrCodeInvalidStyle, "%s must not be negative", KeyStrokeWidth)
	}
	if o.FontSize != nil && *o.FontSize <= 0 {
		return errors.New(errors.ErrCodeInvalidStyle, "%s must be positive", KeyFontSize)
	}
	if o.FontStyle != nil && (*o.FontStyle < 0 || *o.FontStyle > FontBold|FontItalic|FontUnderline|FontStrikethrough) {
		return errors.New(errors.ErrCodeInvalidStyle, "%s must be a bitmask between 0 and 15", KeyFontStyle)
	}
	if o.FontFamily != nil && *o.FontFamily == "" {
		return errors.New(errors.ErrCodeInvalidStyle, "%s must not be empty", KeyFontFamily)
	}
	if o.Opacity != nil && (*o.Opacity < 0 || *o.Opacity > 100) {
		return errors.New(errors.ErrCodeInvalidStyle, "%s must be between 0 and 100", KeyOpacity)
	}
	return nil
}

func validColor(c string) bool {
	return c == "none" || c == "default" || colorRegex.MatchString(c)
}

// IsZero reports whether no field is supplied.
func (o Overrides) IsZero() bool {
	return o == Overrides{}
}

// Apply writes the supplied fields onto st.
func (o Overrides) Apply(st *Style) {
	for _, e := range o.entries() {
		st.Set(e.Key, e.Value)
	}
}

// entries renders the supplied fields in OverrideKeys order.
func (o Overrides) entries() []Entry {
	var out []Entry
	add := func(key, value string) { out = append(out, Entry{Key: key, Value: value}) }

	if o.FillColor != nil {
		add(KeyFillColor, *o.FillColor)
	}
	if o.StrokeColor != nil {
		add(KeyStrokeColor, *o.StrokeColor)
	}
	if o.FontColor != nil {
		add(KeyFontColor, *o.FontColor)
	}
	if o.StrokeWidth != nil {
		add(KeyStrokeWidth, formatFloat(*o.StrokeWidth))
	}
	if o.FontSize != nil {
		add(KeyFontSize, formatFloat(*o.FontSize))
	}
	if o.FontStyle != nil {
		add(KeyFontStyle, strconv.Itoa(*o.FontStyle))
	}
	if o.FontFamily != nil {
		add(KeyFontFamily, *o.FontFamily)
	}
	if o.Opacity != nil {
		add(KeyOpacity, strconv.Itoa(*o.Opacity))
	}
	return out
}

// Extract reads the typed keys back out of st. Values that do not parse are
// skipped.
func Extract(st Style) Overrides {
	var o Overrides
	if v, ok := st.Get(KeyFillColor); ok {
		o.FillColor = Ptr(v)
	}
	if v, ok := st.Get(KeyStrokeColor); ok {
		o.StrokeColor = Ptr(v)
	}
	if v, ok := st.Get(KeyFontColor); ok {
		o.FontColor = Ptr(v)
	}
	if v, ok := st.Get(KeyStrokeWidth); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			o.StrokeWidth = &f
		}
	}
	if v, ok := st.Get(KeyFontSize); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			o.FontSize = &f
		}
	}
	if v, ok := st.Get(KeyFontStyle); ok {
		if n, err := strconv.Atoi(v); err == nil {
			o.FontStyle = &n
		}
	}
	if v, ok := st.Get(KeyFontFamily); ok {
		o.FontFamily = Ptr(v)
	}
	if v, ok := st.Get(KeyOpacity); ok {
		if n, err := strconv.Atoi(v); err == nil {
			o.Opacity = &n
		}
	}
	return o
}

// Float reads key as a number, returning def when absent or malformed.
func (s Style) Float(key string, def float64) float64 {
	v, ok := s.Get(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// Flag reports whether key is set to "1" or present as a bare flag.
func (s Style) Flag(key string) bool {
	v, ok := s.Get(key)
	return ok && (v == "" || v == "1")
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
