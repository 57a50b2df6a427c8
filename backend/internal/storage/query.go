package storage

import (
	"sort"
	"strings"
	"time"

	"github.com/campusboard/campusboard/shared/domain"
	"github.com/campusboard/campusboard/shared/errors"
)

// YearRange returns the half-open interval [Jan 1 year, Jan 1 year+1) in UTC.
func YearRange(year int) (from, to time.Time) {
	from = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(1, 0, 0)
}

// InYear reports whether t falls in YearRange(year).
func InYear(t time.Time, year int) bool {
	from, to := YearRange(year)
	return !t.Before(from) && t.Before(to)
}

// Offset validates pagination arguments and returns the number of rows to skip.
func Offset(page, pageSize int) (int, error) {
	if page < 1 {
		return 0, errors.NewValidation("page must be positive, got %d", page)
	}
	if pageSize < 1 {
		return 0, errors.NewValidation("page size must be positive, got %d", pageSize)
	}
	return (page - 1) * pageSize, nil
}

// SortNewestFirst orders posts by creation date descending, newer ids first on ties.
func SortNewestFirst(posts []domain.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].DateCreated.Equal(posts[j].DateCreated) {
			return posts[i].Id > posts[j].Id
		}
		return posts[i].DateCreated.After(posts[j].DateCreated)
	})
}

// Page cuts one page out of an already sorted slice. Pages past the end are empty.
func Page[T any](items []T, offset, pageSize int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := min(offset+pageSize, len(items))
	return items[offset:end]
}

// Search relevance. Backends that cannot rank natively use MatchScore, the pg
// backend computes the same scores in SQL.
const (
	ScoreExactStudentId = 4
	ScoreExactName      = 3
	ScorePrefix         = 2
	ScoreSubstring      = 1
)

// MatchScore ranks a user against a search keyword. Zero means no match.
func MatchScore(u domain.User, keyword string) int {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	if kw == "" {
		return 0
	}
	name, sid := strings.ToLower(u.Name), strings.ToLower(u.StudentId)
	switch {
	case sid == kw:
		return ScoreExactStudentId
	case name == kw:
		return ScoreExactName
	case strings.HasPrefix(sid, kw) || strings.HasPrefix(name, kw):
		return ScorePrefix
	case strings.Contains(sid, kw) || strings.Contains(name, kw):
		return ScoreSubstring
	}
	return 0
}

// RankUsers keeps users matching keyword whose role is in roleIds, ordered
// by MatchScore descending and id ascending.
func RankUsers(users []domain.User, keyword string, roleIds []domain.RoleId) []domain.User {
	allowed := make(map[domain.RoleId]bool, len(roleIds))
	for _, id := range roleIds {
		allowed[id] = true
	}

	type scored struct {
		user  domain.User
		score int
	}
	var matches []scored
	for _, u := range users {
		if !allowed[u.RoleId] {
			continue
		}
		if s := MatchScore(u, keyword); s > 0 {
			matches = append(matches, scored{u, s})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].user.Id < matches[j].user.Id
	})

	result := make([]domain.User, len(matches))
	for i, m := range matches {
		result[i] = m.user
	}
	return result
}

// Unique returns ids without duplicates, keeping first occurrence order.
func Unique[T comparable](ids []T) []T {
	seen := make(map[T]bool, len(ids))
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
