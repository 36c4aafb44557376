package downloader

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/vrsandeep/tokyo-links/internal/logger"
	"github.com/vrsandeep/tokyo-links/internal/models"
	"github.com/vrsandeep/tokyo-links/internal/ranking"
)

// PageFetcher fetches a page body.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// CandidateExtractor pulls raw candidates out of an item page body.
type CandidateExtractor func(body []byte) []models.RawCandidate

// Processor fetches one item page and picks its best download candidate.
type Processor struct {
	fetcher     PageFetcher
	extract     CandidateExtractor
	metric      models.RankingMetric
	allowedHost string
	log         logger.Logger
}

// ProcessorOption customises a Processor.
type ProcessorOption func(*Processor)

// WithAllowedHost rejects candidates whose download URL is not on host or
// one of its subdomains.
func WithAllowedHost(host string) ProcessorOption {
	return func(p *Processor) { p.allowedHost = strings.ToLower(host) }
}

// WithLogger sets the logger used for per-candidate diagnostics.
func WithLogger(l logger.Logger) ProcessorOption {
	return func(p *Processor) { p.log = l }
}

// NewProcessor creates a Processor ranking candidates by metric.
func NewProcessor(fetcher PageFetcher, extract CandidateExtractor, metric models.RankingMetric, opts ...ProcessorOption) *Processor {
	p := &Processor{
		fetcher: fetcher,
		extract: extract,
		metric:  metric,
		log:     logger.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process turns one descriptor into exactly one outcome. A malformed
// candidate only disqualifies itself.
func (p *Processor) Process(ctx context.Context, d models.ItemDescriptor) models.ItemOutcome {
	body, err := p.fetcher.Fetch(ctx, d.PageURL)
	if err != nil {
		return models.Failure(d, models.FailureFetch, err)
	}

	raws := p.extract(body)
	var valid []models.CandidateEntry
	for _, raw := range raws {
		if !labelMatches(raw.Label, d) {
			continue
		}
		c, err := ranking.ParseCandidate(raw, p.metric)
		if err != nil {
			p.log.Debug("Skipping candidate", logger.String("page", d.PageURL), logger.Error(err))
			continue
		}
		if !p.hostAllowed(c.DownloadURL) {
			p.log.Debug("Skipping off-site candidate", logger.String("page", d.PageURL), logger.String("url", c.DownloadURL))
			continue
		}
		valid = append(valid, c)
	}

	best, ok := ranking.Select(p.metric, valid)
	if !ok {
		return models.Failure(d, models.FailureNoValidCandidate,
			fmt.Errorf("%w: %d of %d candidates usable", models.ErrNoValidCandidate, len(valid), len(raws)))
	}
	best.Label = fmt.Sprintf("%s: %s", d.Type, d.DisplayNumber())
	return models.Success(d, best)
}

func (p *Processor) hostAllowed(raw string) bool {
	if p.allowedHost == "" {
		return true
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == p.allowedHost || strings.HasSuffix(host, "."+p.allowedHost)
}

var labelPattern = regexp.MustCompile(`^\s*([A-Za-z]+)\s*([0-9]+(?:\.[0-9]+)?)?`)

// labelMatches drops candidates whose label names a different content type
// or number than d. Labels that cannot be read are kept.
func labelMatches(label string, d models.ItemDescriptor) bool {
	m := labelPattern.FindStringSubmatch(label)
	if m == nil {
		return true
	}
	t, ok := models.ParseContentType(m[1])
	if !ok {
		return true
	}
	if t != d.Type {
		return false
	}
	return m[2] == "" || d.Number == "" || normalizeNumber(m[2]) == normalizeNumber(d.Number)
}

func normalizeNumber(s string) string {
	s = strings.TrimLeft(s, "0")
	if s == "" || s[0] == '.' {
		return "0" + s
	}
	return s
}
