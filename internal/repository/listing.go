package repository

import (
	"fmt"
	"time"

	"github.com/robertpustota/telegram-ai-monitor/internal/models"
)

// ListOptions controls pagination and date filtering for message/post
// listings. Explicit From/To bounds win over Period.
type ListOptions struct {
	Skip   int
	Limit  int
	From   *time.Time
	To     *time.Time
	Period models.Period
}

// Normalize clamps pagination values and resolves Period into date bounds
// when no explicit bounds are given.
func (o *ListOptions) Normalize(defaultLimit, maxLimit int, now time.Time) {
	if o.Skip < 0 {
		o.Skip = 0
	}
	if o.Limit <= 0 {
		o.Limit = defaultLimit
	}
	if o.Limit > maxLimit {
		o.Limit = maxLimit
	}
	if o.From == nil && o.To == nil && o.Period != "" {
		o.From, o.To = o.Period.Range(now)
	}
}

// whereDate appends date bound conditions to a WHERE clause.
// Returns the extended clause and arguments, numbering placeholders
// from the next free index.
func (o *ListOptions) whereDate(clause string, args []interface{}) (string, []interface{}) {
	if o.From != nil {
		args = append(args, *o.From)
		clause += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if o.To != nil {
		args = append(args, *o.To)
		clause += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	return clause, args
}
