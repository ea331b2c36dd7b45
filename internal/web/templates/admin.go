package templates

import (
	"fmt"
	"strings"

	"github.com/a-h/templ"
)

// adminScript is shared by the admin pages. API calls carry the stored
// token so the pages work even when the auth cookie is host-scoped.
const adminScript = `
    <script>
        function authHeaders() {
            const headers = { 'Content-Type': 'application/json' };
            const token = localStorage.getItem('access_token');
            if (token) headers['Authorization'] = 'Bearer ' + token;
            return headers;
        }
        async function api(method, path, body) {
            const res = await fetch(path, {
                method: method,
                headers: authHeaders(),
                body: body ? JSON.stringify(body) : undefined
            });
            const data = await res.json().catch(() => ({}));
            if (!res.ok) {
                alert(data.error || 'Request failed');
                return null;
            }
            return data;
        }
    </script>`

// UserData is one row of the admin user table.
type UserData struct {
	ID            uint
	Email         string
	Name          string
	Role          string
	IsActive      bool
	EmailVerified bool
	Credits       int
	CreatedAt     string
}

// AdminPanelData drives the admin user management page.
type AdminPanelData struct {
	Email string
	Users []UserData
}

// AdminPanel renders the user management page.
func AdminPanel(data AdminPanelData) templ.Component {
	var b strings.Builder
	fmt.Fprintf(&b, `
    <div class="container">
        <div class="header">
            <h1>&#128737; Fable Admin</h1>
            <p>%s &middot; <a href="/admin/invitations">invitations</a> &middot; <a href="/dashboard">dashboard</a></p>
        </div>
        <div class="panel">
            <h2>Users (%d)</h2>
            <table>
                <thead><tr><th>Email</th><th>Role</th><th>Status</th><th>Verified</th><th>Credits</th><th>Joined</th><th></th></tr></thead>
                <tbody>`, esc(data.Email), len(data.Users))

	for _, u := range data.Users {
		status := `<span class="badge ok">active</span>`
		toggleLabel := "Disable"
		if !u.IsActive {
			status = `<span class="badge off">disabled</span>`
			toggleLabel = "Enable"
		}
		verified := `<span class="badge ok">yes</span>`
		if !u.EmailVerified {
			verified = `<span class="badge off">no</span>`
		}

		fmt.Fprintf(&b, `
                <tr>
                    <td>%s</td>
                    <td>
                        <select onchange="setRole(%d, this.value)">%s</select>
                    </td>
                    <td>%s</td>
                    <td>%s</td>
                    <td><input type="number" value="%d" style="width: 70px;" onchange="setCredits(%d, this.value)"></td>
                    <td>%s</td>
                    <td>
                        <button class="btn-small btn-muted" onclick="toggleActive(%d)">%s</button>
                        <button class="btn-small" onclick="removeUser(%d, %s)">Delete</button>
                    </td>
                </tr>`,
			esc(u.Email), u.ID, roleOptions(u.Role), status, verified,
			u.Credits, u.ID, esc(u.CreatedAt), u.ID, toggleLabel, u.ID, jsString(u.Email))
	}

	b.WriteString(`
                </tbody>
            </table>
        </div>
    </div>` + adminScript + `
    <script>
        async function setRole(id, role) {
            if (await api('PUT', '/api/admin/users/' + id + '/role', { role })) location.reload();
        }
        async function toggleActive(id) {
            if (await api('PUT', '/api/admin/users/' + id + '/toggle-active')) location.reload();
        }
        async function setCredits(id, value) {
            const credits = parseInt(value, 10);
            if (isNaN(credits)) return;
            if (await api('PUT', '/api/admin/users/' + id + '/credits', { credits, operation: 'set' })) location.reload();
        }
        async function removeUser(id, email) {
            if (!confirm('Delete ' + email + ' and all their stories?')) return;
            if (await api('DELETE', '/api/admin/users/' + id)) location.reload();
        }
    </script>`)

	return page("Admin - Fable", b.String())
}

func roleOptions(current string) string {
	var b strings.Builder
	for _, role := range []string{"user", "beta", "admin"} {
		selected := ""
		if role == current {
			selected = " selected"
		}
		fmt.Fprintf(&b, `<option value="%s"%s>%s</option>`, role, selected, role)
	}
	return b.String()
}

// InvitationData is one row of the invitations table.
type InvitationData struct {
	ID             uint
	Code           string
	Note           string
	MaxUses        int
	CurrentUses    int
	CreatedAt      string
	ExpiresAt      string
	CreatedByEmail string
	UsedByEmail    string
	IsValid        bool
}

// InvitationsPanelData drives the invitation management page.
type InvitationsPanelData struct {
	Email       string
	Invitations []InvitationData
	Stats       struct {
		Total   int
		Used    int
		Unused  int
		Expired int
	}
}

// InvitationsPanel renders the invitation management page.
func InvitationsPanel(data InvitationsPanelData) templ.Component {
	var b strings.Builder
	fmt.Fprintf(&b, `
    <div class="container">
        <div class="header">
            <h1>&#128140; Invitations</h1>
            <p>%s &middot; <a href="/admin">users</a> &middot; <a href="/dashboard">dashboard</a></p>
        </div>
        <div class="grid">
            <div class="card"><h2>Total</h2><div class="value">%d</div></div>
            <div class="card"><h2>Unused</h2><div class="value">%d</div></div>
            <div class="card"><h2>Used</h2><div class="value">%d</div></div>
            <div class="card"><h2>Expired</h2><div class="value">%d</div></div>
        </div>
        <div class="panel">
            <h2>Send an invitation</h2>
            <form id="send-form" onsubmit="sendInvitation(event)">
                <label for="inv-email">Email</label>
                <input id="inv-email" name="email" type="email" required>
                <label for="inv-note">Note</label>
                <input id="inv-note" name="note" type="text" placeholder="Who is this for?">
                <button type="submit">Create and send</button>
                <div class="message"></div>
            </form>
        </div>
        <div class="panel">
            <h2>Codes</h2>
            <table>
                <thead><tr><th>Code</th><th>Note</th><th>Uses</th><th>Created</th><th>Expires</th><th>Used by</th><th></th></tr></thead>
                <tbody>`,
		esc(data.Email), data.Stats.Total, data.Stats.Unused, data.Stats.Used, data.Stats.Expired)

	for _, inv := range data.Invitations {
		state := `<span class="badge ok">valid</span>`
		if !inv.IsValid {
			state = `<span class="badge off">spent</span>`
		}
		expires := inv.ExpiresAt
		if expires == "" {
			expires = "never"
		}
		usedBy := inv.UsedByEmail
		if usedBy == "" {
			usedBy = "-"
		}

		fmt.Fprintf(&b, `
                <tr>
                    <td><code>%s</code> %s</td>
                    <td>%s</td>
                    <td>%d/%d</td>
                    <td>%s</td>
                    <td>%s</td>
                    <td>%s</td>
                    <td>
                        <button class="btn-small btn-muted" onclick="resendInvitation(%d)">Resend</button>
                        <button class="btn-small" onclick="removeInvitation(%d)">Delete</button>
                    </td>
                </tr>`,
			esc(inv.Code), state, esc(inv.Note), inv.CurrentUses, inv.MaxUses,
			esc(inv.CreatedAt), esc(expires), esc(usedBy), inv.ID, inv.ID)
	}

	b.WriteString(`
                </tbody>
            </table>
        </div>
    </div>` + adminScript + `
    <script>
        async function sendInvitation(e) {
            e.preventDefault();
            const form = e.target;
            const body = {};
            new FormData(form).forEach((v, k) => { body[k] = v; });
            if (await api('POST', '/api/admin/invitations/send', body)) location.reload();
        }
        async function resendInvitation(id) {
            const data = await api('POST', '/api/admin/invitations/' + id + '/resend');
            if (data) alert(data.message || 'Sent');
        }
        async function removeInvitation(id) {
            if (!confirm('Delete this invitation code?')) return;
            if (await api('DELETE', '/api/admin/invitations/' + id)) location.reload();
        }
    </script>`)

	return page("Invitations - Fable", b.String())
}
