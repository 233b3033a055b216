package blocklist

import (
	"log/slog"
	"net"
	"strings"
	"unicode/utf8"

	"github.com/miekg/dns"
	"golang.org/x/net/idna"
)

const maxLabelLength = 63

type lineVerdict int

const (
	lineAccepted lineVerdict = iota
	lineSkipped
	lineInvalid
)

// Normalize extracts the domains named in a raw block list. The result may contain duplicates and
// has no particular order.
func Normalize(content []byte) []string {
	var domains []string
	for _, line := range splitLines(content) {
		if domain, ok := NormalizeLine(line); ok {
			domains = append(domains, domain)
		}
	}
	return domains
}

// NormalizeLine reduces one raw line to a domain. It reports false for comments, blanks, entries
// without a dot and anything that is not a host name.
func NormalizeLine(line string) (string, bool) {
	domain, verdict := normalizeLine(line)
	return domain, verdict == lineAccepted
}

func splitLines(content []byte) []string {
	return strings.Split(string(content), "\n")
}

func stripBOM(line string) string {
	return strings.TrimPrefix(line, "\ufeff")
}

func normalizeLine(line string) (string, lineVerdict) {
	line = stripBOM(line)
	if strings.HasPrefix(line, "#") {
		return "", lineSkipped
	}
	if comment := strings.IndexByte(line, '#'); comment > 0 {
		line = line[:comment]
	}
	line = strings.ReplaceAll(line, "127.0.0.1", "")
	line = strings.ReplaceAll(line, "localhost", "")
	line = strings.TrimSpace(line)

	if !strings.Contains(line, ".") {
		return "", lineSkipped
	}
	line = strings.TrimPrefix(line, "www.")

	if !isHostName(line) {
		return line, lineInvalid
	}
	return line, lineAccepted
}

// isHostName accepts IP literals and syntactically valid DNS names. Case is not altered.
// Non-ASCII names must survive the IDNA mapping unchanged apart from case, so invisible or
// fullwidth characters are rejected instead of being emitted verbatim.
func isHostName(name string) bool {
	if name == "" {
		return false
	}
	if len(name) > 2 && name[0] == '[' && name[len(name)-1] == ']' {
		inner := name[1 : len(name)-1]
		return strings.Contains(inner, ":") && net.ParseIP(inner) != nil
	}
	if net.ParseIP(name) != nil {
		return true
	}

	host := name
	if !isASCII(host) {
		ascii, err := idna.Lookup.ToASCII(host)
		if err != nil {
			return false
		}
		mapped, err := idna.Lookup.ToUnicode(ascii)
		if err != nil || mapped != strings.ToLower(host) {
			return false
		}
		host = ascii
	}
	if _, ok := dns.IsDomainName(host); !ok {
		return false
	}

	host = strings.TrimSuffix(host, ".")
	if host == "" {
		return false
	}
	for _, label := range strings.Split(host, ".") {
		if !isHostLabel(label) {
			return false
		}
	}
	return true
}

func isHostLabel(label string) bool {
	if label == "" || len(label) > maxLabelLength {
		return false
	}
	for i := 0; i < len(label); i++ {
		c := label[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-' || c == '_':
		default:
			return false
		}
	}
	return true
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

type parseOptions struct {
	SourceID   string
	Logger     *slog.Logger
	ErrorLimit int
}

type errorLimiter struct {
	limit int
	count int
}

// parseSource normalizes a downloaded list into a DomainSet, logging rejected entries.
func parseSource(content []byte, opts parseOptions) (*DomainSet, ParseStats) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	stats := ParseStats{}
	limiter := errorLimiter{limit: opts.ErrorLimit}
	set := NewDomainSet()

	for i, line := range splitLines(content) {
		stats.TotalLines++
		domain, verdict := normalizeLine(line)
		switch verdict {
		case lineAccepted:
			set.Add(domain)
			stats.Domains++
		case lineInvalid:
			stats.Invalid++
			limiter.log(logger, opts.SourceID, i+1, domain)
		}
	}

	limiter.summary(logger, opts.SourceID, stats.Invalid)
	return set, stats
}

func (l *errorLimiter) log(logger *slog.Logger, sourceID string, lineNum int, entry string) {
	if l.limit == 0 {
		return
	}
	if l.limit > 0 && l.count >= l.limit {
		l.count++
		return
	}
	l.count++
	logger.Debug("invalid blocklist entry", "source", sourceID, "line", lineNum, "entry", entry)
}

func (l *errorLimiter) summary(logger *slog.Logger, sourceID string, invalid int) {
	if l.limit <= 0 {
		return
	}
	if invalid > l.limit {
		logger.Debug("blocklist parsing errors suppressed", "source", sourceID, "errors", invalid, "logged", l.limit)
	}
}
