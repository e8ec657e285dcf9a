package ledger

import "strings"

// Account identifies a bookkeeping bucket as a colon-delimited hierarchical
// path, e.g. "Assets:Bank:Checking". Segments are kept verbatim, without any
// normalization.
type Account string

// segments splits the account into its path segments. The empty account has
// no segments.
func (a Account) segments() []string {
	if a == "" {
		return nil
	}
	return strings.Split(string(a), ":")
}

// StartsWith reports whether prefix's segments are a leading subsequence of
// a's segments. Every account starts with the empty account.
func (a Account) StartsWith(prefix Account) bool {
	ps := prefix.segments()
	as := a.segments()
	if len(ps) > len(as) {
		return false
	}
	for i, p := range ps {
		if as[i] != p {
			return false
		}
	}
	return true
}

func (a Account) String() string { return string(a) }
