package query

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Pagination defaults
const (
	DefaultPage  = 1
	DefaultLimit = 100
)

// Shape describes how a filtered result set is ordered, projected and
// paginated. It is built once from query parameters and never mutated.
type Shape struct {
	sort       bson.D
	projection bson.D
	skip       int64
	limit      int64
}

// ParseShape builds a Shape from query parameters. All three transforms
// are optional: absent or malformed input silently falls back to the
// defaults (creation time descending, all fields, page 1 / limit 100).
func ParseShape(params url.Values) Shape {
	page := parsePositiveInt(params.Get("page"), DefaultPage)
	limit := parsePositiveInt(params.Get("limit"), DefaultLimit)

	return Shape{
		sort:       parseSort(params.Get("sort")),
		projection: parseFields(params.Get("fields")),
		skip:       paginationSkip(page, limit),
		limit:      limit,
	}
}

// paginationSkip computes (page-1)*limit, saturating on overflow so that
// parseable but absurd pagination values yield an empty page instead of a
// negative skip the driver would reject.
func paginationSkip(page, limit int64) int64 {
	skip := (page - 1) * limit
	if page > 1 && skip/limit != page-1 {
		return math.MaxInt64
	}
	return skip
}

// Sort returns the sort specification
func (s Shape) Sort() bson.D {
	return s.sort
}

// Projection returns the field projection, or nil when all fields are returned
func (s Shape) Projection() bson.D {
	return s.projection
}

// Skip returns the number of documents to skip
func (s Shape) Skip() int64 {
	return s.skip
}

// Limit returns the maximum number of documents to return
func (s Shape) Limit() int64 {
	return s.limit
}

// FindOptions renders the shape as driver options for a Find call
func (s Shape) FindOptions() *options.FindOptions {
	opts := options.Find().
		SetSort(s.sort).
		SetSkip(s.skip).
		SetLimit(s.limit)
	if s.projection != nil {
		opts.SetProjection(s.projection)
	}
	return opts
}

// parseSort converts a comma-joined field list into a sort document.
// A leading '-' on a field means descending. Defaults to newest first.
func parseSort(raw string) bson.D {
	var sort bson.D
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" || field == "-" {
			continue
		}
		order := 1
		if strings.HasPrefix(field, "-") {
			order = -1
			field = field[1:]
		}
		sort = append(sort, bson.E{Key: field, Value: order})
	}
	if len(sort) == 0 {
		return bson.D{{Key: "createdAt", Value: -1}}
	}
	return sort
}

// parseFields converts a comma-joined allow-list into an inclusion
// projection. Empty input returns nil, meaning all fields.
func parseFields(raw string) bson.D {
	var projection bson.D
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		projection = append(projection, bson.E{Key: field, Value: 1})
	}
	return projection
}

// parsePositiveInt parses a pagination parameter, falling back to the
// default for missing, malformed or non-positive values
func parsePositiveInt(raw string, def int64) int64 {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 1 {
		return def
	}
	return n
}
