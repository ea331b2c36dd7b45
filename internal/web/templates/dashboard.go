package templates

import (
	"fmt"
	"strings"
	"time"

	"github.com/a-h/templ"
)

// DashboardData carries everything the user dashboard displays.
type DashboardData struct {
	Email            string
	Role             string
	Credits          int
	UnlimitedCredits bool
	TotalStories     int64
	TotalTokens      int64
	TotalCreditsUsed int64
	AvgDurationMS    float64
	TopMood          string
}

// Dashboard renders the logged-in user dashboard.
func Dashboard(data DashboardData) templ.Component {
	credits := fmt.Sprintf("%d", data.Credits)
	creditsLabel := "story credits remaining"
	if data.UnlimitedCredits {
		credits = "&#8734;"
		creditsLabel = "unlimited generations"
	}

	topMood := data.TopMood
	if topMood == "" {
		topMood = "none yet"
	}

	var b strings.Builder
	fmt.Fprintf(&b, `
    <div class="container">
        <div class="header">
            <h1>&#128214; Your Fable</h1>
            <p>%s &middot; <a href="#" onclick="logout(); return false;">log out</a></p>
        </div>
        <div class="grid">
            <div class="card"><h2>&#127915; Credits</h2><div class="value">%s</div><div class="label">%s</div></div>
            <div class="card"><h2>&#128218; Stories</h2><div class="value">%d</div><div class="label">stories told</div></div>
            <div class="card"><h2>&#127917; Favorite mood</h2><div class="value" style="font-size: 1.5em; text-transform: capitalize;">%s</div><div class="label">most requested</div></div>
            <div class="card"><h2>&#9201; Avg time</h2><div class="value">%.0fms</div><div class="label">per story</div></div>
        </div>
        <div class="panel">
            <h2>&#128220; Recent stories</h2>
            <div id="usage-history" hx-get="/htmx/usage-history" hx-trigger="load">
                <p style="color: #999;">Loading...</p>
            </div>
        </div>
        <div class="footer">
            Generate stories with <code>POST /api/v1/stories</code> &middot; <a href="/api/v1/status">capabilities</a>
        </div>
    </div>
    <script src="https://unpkg.com/htmx.org@1.9.12"></script>
    <script>
        async function logout() {
            await fetch('/api/auth/logout', { method: 'POST' });
            localStorage.removeItem('access_token');
            localStorage.removeItem('refresh_token');
            window.location.href = '/';
        }
    </script>`,
		esc(data.Email), credits, creditsLabel, data.TotalStories, esc(topMood), data.AvgDurationMS)

	return page("Dashboard - Fable", b.String())
}

// UsageHistoryItem is one row of the recent activity table.
type UsageHistoryItem struct {
	CreatedAt      time.Time
	Mood           string
	Style          string
	CreditsCharged int
	DurationMS     int
}

// UsageTableData drives the HTMX usage history fragment.
type UsageTableData struct {
	Logs        []UsageHistoryItem
	ShowCredits bool
}

// UsageTable renders the recent activity rows as a bare fragment for
// HTMX swaps, without the page shell.
func UsageTable(data UsageTableData) templ.Component {
	var b strings.Builder

	if len(data.Logs) == 0 {
		b.WriteString(`<p style="color: #999;">No stories yet. Your first one is a POST away.</p>`)
		return fragment(b.String())
	}

	b.WriteString(`<table><thead><tr><th>When</th><th>Mood</th><th>Style</th>`)
	if data.ShowCredits {
		b.WriteString(`<th>Credits</th>`)
	}
	b.WriteString(`<th>Duration</th></tr></thead><tbody>`)

	for _, log := range data.Logs {
		fmt.Fprintf(&b, `<tr><td>%s</td><td style="text-transform: capitalize;">%s</td><td>%s</td>`,
			log.CreatedAt.Format("Jan 2 15:04"), esc(log.Mood), esc(log.Style))
		if data.ShowCredits {
			fmt.Fprintf(&b, `<td>%d</td>`, log.CreditsCharged)
		}
		fmt.Fprintf(&b, `<td>%dms</td></tr>`, log.DurationMS)
	}

	b.WriteString(`</tbody></table>`)
	return fragment(b.String())
}
