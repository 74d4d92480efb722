package tgaz

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// Per-operation upstream timeouts. Calls are never retried.
const (
	LookupTimeout = 10 * time.Second
	SearchTimeout = 15 * time.Second
)

// Request describes a single GET against the gazetteer.
type Request struct {
	URL     string
	Accept  string
	Timeout time.Duration
}

// Builder maps validated parameters onto the gazetteer's URL dialect.
// The base URL is fixed at construction.
type Builder struct {
	base string
}

// NewBuilder returns a Builder for the given base URL, e.g. "http://tgaz.fudan.edu.cn/tgaz".
func NewBuilder(base string) (*Builder, error) {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid base URL %q", base)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Newf("invalid base URL %q: scheme must be http or https", base)
	}
	if u.Host == "" {
		return nil, errors.Newf("invalid base URL %q: missing host", base)
	}
	return &Builder{base: strings.TrimRight(u.String(), "/")}, nil
}

// BaseURL returns the normalized base URL.
func (b *Builder) BaseURL() string {
	return b.base
}

// PlaceByID builds {base}/placename/{format}/{id}.
func (b *Builder) PlaceByID(p PlaceByIDParams) Request {
	return Request{
		URL:     b.base + "/placename/" + string(p.Format) + "/" + p.ID,
		Accept:  p.Format.Accept(),
		Timeout: LookupTimeout,
	}
}

// Search builds {base}/placename?... with keys in the fixed order n, yr, ftyp, p, src, fmt.
// Absent filters contribute no key; fmt is always present.
func (b *Builder) Search(p SearchParams) Request {
	var q queryString
	q.add("n", p.Name)
	if p.Year != nil {
		q.add("yr", strconv.Itoa(*p.Year))
	}
	q.add("ftyp", p.FeatureType)
	q.add("p", p.Parent)
	q.add("src", p.Source)
	q.add("fmt", string(p.Format))

	return Request{
		URL:     b.base + "/placename?" + q.String(),
		Accept:  p.Format.Accept(),
		Timeout: SearchTimeout,
	}
}

// HistoricalContext always targets the xml representation.
func (b *Builder) HistoricalContext(p ContextParams) Request {
	return Request{
		URL:     b.base + "/placename/xml/" + p.ID,
		Accept:  FormatXML.Accept(),
		Timeout: LookupTimeout,
	}
}

// queryString keeps insertion order, unlike url.Values.Encode which sorts keys.
type queryString []string

func (q *queryString) add(key, value string) {
	if value == "" {
		return
	}
	*q = append(*q, url.QueryEscape(key)+"="+url.QueryEscape(value))
}

func (q queryString) String() string {
	return strings.Join(q, "&")
}
