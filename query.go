package ledger

import (
	"fmt"
	"strings"
	"time"
)

// Query filters records by account, tag and date range. The zero Query
// matches everything.
type Query struct {
	Accounts []Account
	Tags     []string
	Start    time.Time // zero means unbounded
	End      time.Time // zero means unbounded
}

// ParseQuery parses a whitespace-separated query string. Supported tokens:
//
//	account:<path>   match records posting to the account
//	tag:<tag>        match records carrying the tag
//	start:<date>     records on or after the date (2006-01-02)
//	end:<date>       records on or before the date
//	date:<a>..<b>    shorthand for start and end, either side may be empty
func ParseQuery(s string) (Query, error) {
	var q Query
	for _, token := range strings.Fields(s) {
		switch {
		case strings.HasPrefix(token, "account:"):
			q.Accounts = append(q.Accounts, Account(strings.TrimPrefix(token, "account:")))
		case strings.HasPrefix(token, "tag:"):
			q.Tags = append(q.Tags, strings.TrimPrefix(token, "tag:"))
		case strings.HasPrefix(token, "start:"):
			d, err := parseQueryDate(strings.TrimPrefix(token, "start:"))
			if err != nil {
				return Query{}, err
			}
			q.Start = d
		case strings.HasPrefix(token, "end:"):
			d, err := parseQueryDate(strings.TrimPrefix(token, "end:"))
			if err != nil {
				return Query{}, err
			}
			q.End = d
		case strings.HasPrefix(token, "date:"):
			parts := strings.SplitN(strings.TrimPrefix(token, "date:"), "..", 2)
			if len(parts) != 2 {
				return Query{}, fmt.Errorf("invalid query token %q", token)
			}
			if parts[0] != "" {
				d, err := parseQueryDate(parts[0])
				if err != nil {
					return Query{}, err
				}
				q.Start = d
			}
			if parts[1] != "" {
				d, err := parseQueryDate(parts[1])
				if err != nil {
					return Query{}, err
				}
				q.End = d
			}
		default:
			return Query{}, fmt.Errorf("invalid query token %q", token)
		}
	}
	return q, nil
}

func parseQueryDate(s string) (time.Time, error) {
	d, err := time.Parse(rateDateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid query date %q", s)
	}
	return d, nil
}

// Matches reports whether the record satisfies every criterion of the query.
func (q Query) Matches(r Record) bool {
	d := day(r.Timestamp)
	if !q.Start.IsZero() && d.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && d.After(q.End) {
		return false
	}
	if len(q.Accounts) > 0 && !q.matchesAccount(r) {
		return false
	}
	if len(q.Tags) > 0 && !q.matchesTag(r) {
		return false
	}
	return true
}

func (q Query) matchesAccount(r Record) bool {
	for _, a := range q.Accounts {
		for _, p := range r.Postings {
			if p.Debit == a || p.Credit == a {
				return true
			}
		}
	}
	return false
}

func (q Query) matchesTag(r Record) bool {
	for _, want := range q.Tags {
		for _, t := range r.Tags {
			if t == want {
				return true
			}
		}
	}
	return false
}

// Filter returns the ledger's records matching the query, in commit order.
func (q Query) Filter(l *Ledger) []Record {
	var out []Record
	for _, r := range l.Records() {
		if q.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}
