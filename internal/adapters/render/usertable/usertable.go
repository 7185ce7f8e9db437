// Package usertable renders admin collections as terminal tables.
package usertable

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/bnema/rank-admin-cli/internal/domain"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// Users renders one page of the user list plus a paging footer.
func Users(page domain.Pagination[domain.User]) string {
	rows := make([][]string, 0, len(page.Items))
	for _, user := range page.Items {
		rows = append(rows, []string{
			string(user.ID),
			user.Name,
			user.Email,
			rolesLabel(user.Roles),
			string(user.Provider),
			statusLabel(user),
			fmt.Sprintf("%d", user.SubscriptionCredits+user.PurchasedCredits),
			formatTimePtr(user.LastLoginAt),
		})
	}

	rendered := renderTable(
		[]string{"ID", "Name", "Email", "Roles", "Provider", "Status", "Credits", "Last Login"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	)

	return rendered + "\n" + pagingFooter(page.Page, page.Limit, page.Total, len(page.Items))
}

// UserDetail renders a single user as a two-column key/value table.
func UserDetail(user domain.User) string {
	rows := [][]string{
		{"ID", string(user.ID)},
		{"Name", user.Name},
		{"Email", user.Email},
		{"Roles", rolesLabel(user.Roles)},
		{"Provider", string(user.Provider)},
		{"Status", statusLabel(user)},
		{"Email verified", formatTimePtr(user.EmailVerifiedAt)},
		{"Last login", formatTimePtr(user.LastLoginAt)},
		{"Subscription credits", fmt.Sprintf("%d", user.SubscriptionCredits)},
		{"Purchased credits", fmt.Sprintf("%d", user.PurchasedCredits)},
		{"Created", user.CreatedAt.Format(time.RFC3339)},
	}
	if user.CurrentPlan != nil {
		rows = append(rows, []string{"Plan", user.CurrentPlan.Name})
	}
	if user.StripeCustomerID != "" {
		rows = append(rows, []string{"Stripe customer", user.StripeCustomerID})
	}
	if user.Notes != "" {
		rows = append(rows, []string{"Notes", user.Notes})
	}

	return renderTable([]string{"Field", "Value"}, rows, nil)
}

// Thumbnails renders one offset page of the training gallery.
func Thumbnails(page domain.ThumbnailsPage) string {
	rows := make([][]string, 0, len(page.Items))
	for _, thumb := range page.Items {
		rows = append(rows, []string{
			thumb.VideoID,
			truncate(thumb.Title, 48),
			thumb.StyleBucket,
			truncate(thumb.Caption, 40),
		})
	}

	rendered := renderTable(
		[]string{"Video", "Title", "Style", "Caption"},
		rows,
		nil,
	)

	footer := fmt.Sprintf("offset %d, showing %d of %d", page.Offset, len(page.Items), page.Total)
	return rendered + "\n" + footer
}

func rolesLabel(roles []domain.UserRole) string {
	if len(roles) == 0 {
		return "-"
	}

	labels := make([]string, 0, len(roles))
	for _, role := range roles {
		labels = append(labels, string(role))
	}
	return strings.Join(labels, ",")
}

func statusLabel(user domain.User) string {
	switch {
	case !user.IsActive:
		return "inactive"
	case user.EmailVerifiedAt == nil:
		return "invited"
	default:
		return "active"
	}
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}

func pagingFooter(page, limit, total, shown int) string {
	if limit <= 0 {
		return fmt.Sprintf("showing %d of %d", shown, total)
	}

	totalPages := (total + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}
	return fmt.Sprintf("page %d/%d, showing %d of %d", page, totalPages, shown, total)
}

func truncate(s string, max int) string {
	if max <= 1 || len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
