package auth

import (
	"fmt"
	"io"
	"strings"
)

// WriteCookieGuide writes short instructions for obtaining the two secrets
func WriteCookieGuide(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintln(w, "INSTAGRAM SESSION SETUP")
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "1. Log in at https://www.instagram.com in a desktop browser.")
	fmt.Fprintln(w, "2. Open Developer Tools (F12) and select the Network tab.")
	fmt.Fprintln(w, "3. Refresh, click any request to i.instagram.com or www.instagram.com.")
	fmt.Fprintln(w, "4. Under Request Headers copy:")
	fmt.Fprintln(w, "     - the whole 'Cookie:' value        -> session cookie")
	fmt.Fprintln(w, "     - the 'X-IG-App-ID:' value          -> app id")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "The cookie grants full access to the account. Use a secondary account")
	fmt.Fprintln(w, "and never commit it to source control.")
	fmt.Fprintln(w, strings.Repeat("=", 72))
}
