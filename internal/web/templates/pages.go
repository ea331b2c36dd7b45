package templates

import (
	"fmt"

	"github.com/a-h/templ"
)

// ComingSoon is the landing page shown on the main domain before launch.
func ComingSoon() templ.Component {
	return page("Fable", `
    <div class="container" style="text-align: center; color: white; margin-top: 12vh;">
        <h1 style="font-size: 3.2em; text-shadow: 0 2px 4px rgba(0,0,0,0.3);">&#128214; Fable</h1>
        <p style="font-size: 1.3em; margin-top: 14px; opacity: 0.95;">Every mood has a story.</p>
        <p style="margin-top: 10px; opacity: 0.85;">Tell us how you feel and Fable composes a short story and a poster concept in the voice you pick.</p>
        <div style="margin-top: 32px;">
            <a class="btn" href="/beta">Join the beta</a>
            <a class="btn btn-outline" href="/login" style="margin-left: 12px;">Log in</a>
        </div>
        <div class="footer" style="margin-top: 18vh;">Launching soon. Invitations roll out in waves.</div>
    </div>`)
}

// authFormScript posts a JSON form to an auth endpoint, stores the
// returned tokens, and redirects to the dashboard.
func authFormScript(formID, endpoint string) string {
	return fmt.Sprintf(`
    <script>
        document.getElementById(%s).addEventListener('submit', async (e) => {
            e.preventDefault();
            const form = e.target;
            const msg = form.querySelector('.message');
            msg.className = 'message';
            msg.textContent = 'Working...';
            const body = {};
            new FormData(form).forEach((v, k) => { body[k] = v; });
            try {
                const res = await fetch(%s, {
                    method: 'POST',
                    headers: { 'Content-Type': 'application/json' },
                    body: JSON.stringify(body)
                });
                const data = await res.json();
                if (!res.ok) {
                    msg.className = 'message error';
                    msg.textContent = data.error || 'Request failed';
                    return;
                }
                if (data.access_token) {
                    localStorage.setItem('access_token', data.access_token);
                    localStorage.setItem('refresh_token', data.refresh_token);
                    window.location.href = '/dashboard';
                    return;
                }
                msg.textContent = data.message || 'Done';
            } catch (err) {
                msg.className = 'message error';
                msg.textContent = 'Could not reach the server';
            }
        });
    </script>`, jsString(formID), jsString(endpoint))
}

// Register renders the invitation-based registration page.
func Register() templ.Component {
	return page("Create account - Fable", `
    <div class="narrow">
        <div class="header"><h1>&#128214; Fable</h1><p>Create your account</p></div>
        <div class="panel">
            <form id="register-form">
                <label for="name">Name</label>
                <input id="name" name="name" type="text" autocomplete="name">
                <label for="email">Email</label>
                <input id="email" name="email" type="email" required autocomplete="email">
                <label for="password">Password</label>
                <input id="password" name="password" type="password" required minlength="8" autocomplete="new-password">
                <label for="invitation_code">Invitation code</label>
                <input id="invitation_code" name="invitation_code" type="text" placeholder="From your invitation email">
                <button type="submit">Create account</button>
                <div class="message"></div>
            </form>
        </div>
        <div class="footer">Already have an account? <a href="/login">Log in</a></div>
    </div>`+authFormScript("register-form", "/api/auth/register"))
}

// BetaSignup renders the beta signup page shown on the beta domain.
func BetaSignup() templ.Component {
	return page("Join the beta - Fable", `
    <div class="narrow">
        <div class="header"><h1>&#128214; Fable</h1><p>Join the beta and tell unlimited stories</p></div>
        <div class="panel">
            <form id="beta-form">
                <label for="name">Name</label>
                <input id="name" name="name" type="text" autocomplete="name">
                <label for="email">Email</label>
                <input id="email" name="email" type="email" required autocomplete="email">
                <label for="password">Password</label>
                <input id="password" name="password" type="password" required minlength="8" autocomplete="new-password">
                <button type="submit">Join the beta</button>
                <div class="message"></div>
            </form>
        </div>
        <div class="footer">Already have an account? <a href="/login">Log in</a></div>
    </div>`+authFormScript("beta-form", "/api/auth/register/beta"))
}

// Login renders the login page with email and OAuth options.
func Login() templ.Component {
	return page("Log in - Fable", `
    <div class="narrow">
        <div class="header"><h1>&#128214; Fable</h1><p>Welcome back</p></div>
        <div class="panel">
            <form id="login-form">
                <label for="email">Email</label>
                <input id="email" name="email" type="email" required autocomplete="email">
                <label for="password">Password</label>
                <input id="password" name="password" type="password" required autocomplete="current-password">
                <button type="submit">Log in</button>
                <div class="message"></div>
            </form>
            <div style="text-align: center; color: #999; margin: 18px 0 4px; font-size: 0.9em;">or continue with</div>
            <div style="display: flex; gap: 10px;">
                <a class="btn" style="flex: 1; text-align: center; background: #4285f4;" href="/api/auth/google">Google</a>
                <a class="btn" style="flex: 1; text-align: center; background: #24292e;" href="/api/auth/github">GitHub</a>
            </div>
        </div>
        <div class="footer">New to Fable? <a href="/beta">Join the beta</a></div>
    </div>`+authFormScript("login-form", "/api/auth/login"))
}

// AcceptInvitation renders the account creation form for an invitation
// link. Email and code come from the link and are locked in.
func AcceptInvitation(email, code, errorMsg string) templ.Component {
	errorBlock := ""
	if errorMsg != "" {
		errorBlock = fmt.Sprintf(`<div class="message error" style="margin-bottom: 10px;">%s</div>`, esc(errorMsg))
	}
	body := fmt.Sprintf(`
    <div class="narrow">
        <div class="header"><h1>&#128214; Fable</h1><p>You're invited</p></div>
        <div class="panel">
            %s
            <form id="invitation-form">
                <label for="email">Email</label>
                <input id="email" name="email" type="email" value="%s" readonly>
                <input name="invitation_code" type="hidden" value="%s">
                <label for="name">Name</label>
                <input id="name" name="name" type="text" autocomplete="name">
                <label for="password">Choose a password</label>
                <input id="password" name="password" type="password" required minlength="8" autocomplete="new-password">
                <button type="submit">Create account</button>
                <div class="message"></div>
            </form>
        </div>
    </div>`, errorBlock, esc(email), esc(code))
	return page("Accept invitation - Fable", body+authFormScript("invitation-form", "/api/auth/accept-invitation"))
}

// OAuthCallback stores the tokens handed back by the OAuth flow and
// forwards the browser to the dashboard.
func OAuthCallback(accessToken, refreshToken string, isNew bool) templ.Component {
	heading := "Welcome back"
	if isNew {
		heading = "Welcome to Fable"
	}
	body := fmt.Sprintf(`
    <div class="narrow" style="text-align: center;">
        <div class="header"><h1>&#128214; %s</h1><p>Signing you in...</p></div>
    </div>
    <script>
        localStorage.setItem('access_token', %s);
        localStorage.setItem('refresh_token', %s);
        window.location.replace('/dashboard');
    </script>`, heading, jsString(accessToken), jsString(refreshToken))
	return page("Signing in - Fable", body)
}

// VerifyEmailSuccess renders the post-verification landing page.
func VerifyEmailSuccess() templ.Component {
	return page("Email verified - Fable", `
    <div class="narrow" style="text-align: center;">
        <div class="header"><h1>&#9989; Email verified</h1></div>
        <div class="panel">
            <p style="color: #555;">Your address is confirmed. You can start telling stories.</p>
            <a class="btn" href="/login">Log in</a>
        </div>
    </div>`)
}

// VerifyEmailError renders a verification failure with the reason.
func VerifyEmailError(message string) templ.Component {
	body := fmt.Sprintf(`
    <div class="narrow" style="text-align: center;">
        <div class="header"><h1>&#10060; Verification failed</h1></div>
        <div class="panel">
            <p style="color: #555;">%s</p>
            <a class="btn" href="/login">Back to login</a>
        </div>
    </div>`, esc(message))
	return page("Verification failed - Fable", body)
}
