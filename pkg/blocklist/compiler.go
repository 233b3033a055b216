package blocklist

import (
	"context"
	"errors"
	"log/slog"
)

// Job describes one compilation run.
type Job struct {
	Sources   []Source
	Local     []string
	Output    string
	Formatter *Formatter
}

// Compiler runs the fetch, normalize, merge, format and write pipeline.
type Compiler struct {
	fetcher    Fetcher
	writer     *Writer
	log        *slog.Logger
	errorLimit int
}

// NewCompiler creates a Compiler. errorLimit caps the rejected entries logged per source.
func NewCompiler(fetcher Fetcher, writer *Writer, log *slog.Logger, errorLimit int) *Compiler {
	if log == nil {
		log = slog.Default()
	}
	return &Compiler{
		fetcher:    fetcher,
		writer:     writer,
		log:        log,
		errorLimit: errorLimit,
	}
}

// Compile builds the block list for job and writes it to job.Output. Source failures are recorded
// in the report; any returned error is fatal and leaves the output untouched.
func (c *Compiler) Compile(ctx context.Context, job Job) (*Report, error) {
	if job.Formatter == nil {
		err := &FormatModeError{Reason: "no formatter configured"}
		c.log.Error("invalid output format", "error", err)
		return nil, err
	}
	c.log.Info("compiling block list", "file", job.Output, "type", job.Formatter.Mode())

	report := &Report{Output: job.Output, Mode: job.Formatter.Mode()}
	sets := make([]*DomainSet, 0, len(job.Sources))

	for _, source := range job.Sources {
		if err := ctx.Err(); err != nil {
			c.log.Error("compilation cancelled", "source", source.Location, "error", err)
			return nil, err
		}
		set, sourceReport := c.loadSource(ctx, source)
		report.Sources = append(report.Sources, sourceReport)
		if set != nil {
			sets = append(sets, set)
		}
	}

	downloaded := NewDomainSet()
	for _, set := range sets {
		downloaded.Merge(set)
	}
	c.log.Info("completed download from all sources", "unique_domains", downloaded.Len(), "failed_sources", report.FailedSources())

	domains := Merge([]*DomainSet{downloaded}, job.Local)
	report.LocalEntries = len(job.Local)
	report.Domains = len(domains)
	c.log.Info("added items from the local block list", "count", len(job.Local))

	lines := job.Formatter.RenderAll(domains)
	c.log.Info("writing domains to file", "file", job.Output, "domains", len(domains), "format", job.Formatter.Template())
	if err := c.writer.Write(job.Output, lines); err != nil {
		c.log.Error("failed to write block list", "file", job.Output, "error", err)
		return nil, err
	}

	c.log.Info("file successfully generated", "file", job.Output)
	return report, nil
}

func (c *Compiler) loadSource(ctx context.Context, source Source) (*DomainSet, SourceReport) {
	c.log.Info("downloading", "source", source.Location)

	result := c.fetcher.Fetch(ctx, source)
	if result.Err != nil {
		var fetchErr *FetchError
		if errors.As(result.Err, &fetchErr) && fetchErr.StatusCode != 0 {
			c.log.Error("failed to download", "source", source.Location, "status", fetchErr.StatusCode)
		} else {
			c.log.Error("exception while downloading", "source", source.Location, "error", result.Err)
		}
		return nil, SourceReport{Source: source, Err: result.Err}
	}

	set, stats := parseSource(result.Content, parseOptions{
		SourceID:   source.ID,
		Logger:     c.log,
		ErrorLimit: c.errorLimit,
	})
	c.log.Info("completed downloading", "source", source.Location, "lines", stats.TotalLines, "domains", set.Len(), "invalid", stats.Invalid)
	return set, SourceReport{Source: source, Stats: stats}
}
