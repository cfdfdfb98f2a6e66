// Package catalog filters, sorts and paginates the open job listing that
// candidates browse. It works over jobs already loaded into memory and never
// fails: bad input degrades to a sensible default.
package catalog

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"hr-portal/internal/models"

	"golang.org/x/text/cases"
)

// PageSize is the number of jobs per catalog page.
const PageSize = 9

// All disables a location or company filter.
const All = "All"

type SortKey string

const (
	SortNewest        SortKey = "Newest"
	SortOldest        SortKey = "Oldest"
	SortHighestSalary SortKey = "HighestSalary"
	SortLowestSalary  SortKey = "LowestSalary"
)

// Query describes one catalog request.
type Query struct {
	Search   string
	Location string
	Company  string
	Sort     SortKey
	Page     int
}

// Page is one page of results.
type Page struct {
	Jobs       []models.Job `json:"jobs"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	Total      int          `json:"total"`
	TotalPages int          `json:"total_pages"`
}

// Facets are the distinct filter values available among open jobs.
type Facets struct {
	Locations []string `json:"locations"`
	Companies []string `json:"companies"`
}

var firstNumber = regexp.MustCompile(`\d+`)

// Salary extracts the first integer token of a salary range. "$50,000 - $70,000"
// yields 50 and "$90k" yields 90. Missing or non-numeric ranges yield 0, so
// unsalaried jobs sort last for HighestSalary and first for LowestSalary.
func Salary(salaryRange *string) int {
	if salaryRange == nil {
		return 0
	}
	token := firstNumber.FindString(*salaryRange)
	if token == "" {
		return 0
	}
	n, err := strconv.Atoi(token)
	if err != nil {
		return 0
	}
	return n
}

// Search runs q over jobs. The input slice is not modified.
func Search(jobs []models.Job, q Query) Page {
	filtered := Filter(jobs, q)
	SortJobs(filtered, q.Sort)
	return Paginate(filtered, q.Page)
}

// Filter keeps the open jobs matching the search term and the exact
// location and company filters.
func Filter(jobs []models.Job, q Query) []models.Job {
	fold := cases.Fold()
	term := fold.String(strings.TrimSpace(q.Search))

	out := make([]models.Job, 0, len(jobs))
	for _, job := range jobs {
		if job.Status != models.JobStatusOpen {
			continue
		}
		if active(q.Location) && job.Location != q.Location {
			continue
		}
		if active(q.Company) && job.CompanyName != q.Company {
			continue
		}
		if term != "" &&
			!strings.Contains(fold.String(job.Title), term) &&
			!strings.Contains(fold.String(job.CompanyName), term) &&
			!strings.Contains(fold.String(job.Location), term) {
			continue
		}
		out = append(out, job)
	}
	return out
}

func active(filter string) bool {
	return filter != "" && filter != All
}

// SortJobs orders jobs in place. Ties keep their input order, as does an
// unknown key.
func SortJobs(jobs []models.Job, key SortKey) {
	var less func(a, b *models.Job) bool
	switch key {
	case SortNewest:
		less = func(a, b *models.Job) bool { return a.CreatedAt.After(b.CreatedAt) }
	case SortOldest:
		less = func(a, b *models.Job) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortHighestSalary:
		less = func(a, b *models.Job) bool { return Salary(a.SalaryRange) > Salary(b.SalaryRange) }
	case SortLowestSalary:
		less = func(a, b *models.Job) bool { return Salary(a.SalaryRange) < Salary(b.SalaryRange) }
	default:
		return
	}
	sort.SliceStable(jobs, func(i, j int) bool { return less(&jobs[i], &jobs[j]) })
}

// Paginate returns the requested 1-indexed page, clamped to the available range.
func Paginate(jobs []models.Job, page int) Page {
	total := len(jobs)
	totalPages := (total + PageSize - 1) / PageSize

	if page < 1 {
		page = 1
	}
	if totalPages == 0 {
		return Page{Jobs: []models.Job{}, Page: 1, PageSize: PageSize}
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * PageSize
	end := start + PageSize
	if end > total {
		end = total
	}
	return Page{
		Jobs:       jobs[start:end],
		Page:       page,
		PageSize:   PageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}

// ParseSort maps a user supplied key to a SortKey, case-insensitively.
// Unknown keys are returned unchanged and sort as a no-op.
func ParseSort(raw string) SortKey {
	for _, k := range []SortKey{SortNewest, SortOldest, SortHighestSalary, SortLowestSalary} {
		if strings.EqualFold(raw, string(k)) {
			return k
		}
	}
	return SortKey(raw)
}

// ListFacets collects the distinct, sorted locations and companies of open jobs.
func ListFacets(jobs []models.Job) Facets {
	locations := map[string]struct{}{}
	companies := map[string]struct{}{}
	for _, job := range jobs {
		if job.Status != models.JobStatusOpen {
			continue
		}
		if job.Location != "" {
			locations[job.Location] = struct{}{}
		}
		if job.CompanyName != "" {
			companies[job.CompanyName] = struct{}{}
		}
	}
	return Facets{Locations: sortedKeys(locations), Companies: sortedKeys(companies)}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
