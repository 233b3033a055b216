package blocklist

import (
	"strings"
)

// Mode selects the line template used for the output file.
type Mode string

const (
	ModeBind9  Mode = "bind9"
	ModeHosts  Mode = "hosts"
	ModeCustom Mode = "custom"
)

const (
	// DefaultZoneFile is the zone file referenced by bind9 stanzas.
	DefaultZoneFile = "/etc/bind/zones/db.blocks"
	// DefaultTemplate is the custom template used when none is given.
	DefaultTemplate = "{0}"

	placeholder = "{0}"
)

// ParseMode resolves a user supplied output type, ignoring case.
func ParseMode(raw string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "bind9", "bind", "zone":
		return ModeBind9, nil
	case "hosts":
		return ModeHosts, nil
	case "custom":
		return ModeCustom, nil
	default:
		return "", &FormatModeError{Value: raw, Reason: "must be one of bind9, hosts, custom"}
	}
}

// ZoneTemplate returns the bind9 stanza template for the given zone file.
func ZoneTemplate(zoneFile string) string {
	if zoneFile == "" {
		zoneFile = DefaultZoneFile
	}
	return `zone "{0}" {{ type primary; file "` + escapeBraces(zoneFile) + `"; }};`
}

// Formatter renders domains into output lines.
type Formatter struct {
	mode     Mode
	template string
	segments []segment
}

type segment struct {
	text   string
	domain bool
}

// NewFormatter compiles the template for mode. custom is only consulted for ModeCustom, zoneFile
// only for ModeBind9. Templates use {0} for the domain and {{ }} for literal braces.
func NewFormatter(mode Mode, custom string, zoneFile string) (*Formatter, error) {
	var template string
	switch mode {
	case ModeBind9:
		template = ZoneTemplate(zoneFile)
	case ModeHosts:
		template = "127.0.0.1 {0}"
	case ModeCustom:
		template = custom
	default:
		return nil, &FormatModeError{Value: string(mode), Reason: "must be one of bind9, hosts, custom"}
	}

	segments, err := compileTemplate(template)
	if err != nil {
		return nil, err
	}
	return &Formatter{mode: mode, template: template, segments: segments}, nil
}

// Mode returns the output mode.
func (f *Formatter) Mode() Mode {
	return f.mode
}

// Template returns the source template.
func (f *Formatter) Template() string {
	return f.template
}

// Render returns the output line for domain. A template without {0} yields its literal text.
func (f *Formatter) Render(domain string) string {
	var b strings.Builder
	for _, seg := range f.segments {
		if seg.domain {
			b.WriteString(domain)
			continue
		}
		b.WriteString(seg.text)
	}
	return b.String()
}

// RenderAll renders every domain in order.
func (f *Formatter) RenderAll(domains []string) []string {
	lines := make([]string, len(domains))
	for i, domain := range domains {
		lines[i] = f.Render(domain)
	}
	return lines
}

func compileTemplate(template string) ([]segment, error) {
	var (
		segments []segment
		text     strings.Builder
	)
	flush := func() {
		if text.Len() > 0 {
			segments = append(segments, segment{text: text.String()})
			text.Reset()
		}
	}

	for i := 0; i < len(template); i++ {
		c := template[i]
		switch c {
		case '{':
			if strings.HasPrefix(template[i:], "{{") {
				text.WriteByte('{')
				i++
				continue
			}
			if strings.HasPrefix(template[i:], placeholder) {
				flush()
				segments = append(segments, segment{domain: true})
				i += len(placeholder) - 1
				continue
			}
			return nil, &FormatModeError{Value: template, Reason: "only the {0} placeholder is supported; use {{ and }} for literal braces"}
		case '}':
			if strings.HasPrefix(template[i:], "}}") {
				text.WriteByte('}')
				i++
				continue
			}
			return nil, &FormatModeError{Value: template, Reason: "unbalanced '}'; use }} for a literal brace"}
		default:
			text.WriteByte(c)
		}
	}
	flush()
	return segments, nil
}

func escapeBraces(s string) string {
	s = strings.ReplaceAll(s, "{", "{{")
	return strings.ReplaceAll(s, "}", "}}")
}
