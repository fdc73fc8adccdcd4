package http

import "github.com/gorilla/securecookie"

const calendarTokenName = "calendar"

// CalendarTokens mints and verifies the HMAC tokens that authenticate
// calendar-file links. A token is bound to one order reference; possession
// of the link is the only credential.
type CalendarTokens struct {
	sc *securecookie.SecureCookie
}

func NewCalendarTokens(hashKey []byte) *CalendarTokens {
	sc := securecookie.New(hashKey, nil)
	// Calendar links live in order emails; don't let them expire under
	// the default 30 days.
	sc.MaxAge(0)
	return &CalendarTokens{sc: sc}
}

func (t *CalendarTokens) Mint(orderRef string) (string, error) {
	return t.sc.Encode(calendarTokenName, orderRef)
}

func (t *CalendarTokens) Verify(orderRef, token string) bool {
	var decoded string
	if err := t.sc.Decode(calendarTokenName, token, &decoded); err != nil {
		return false
	}
	return decoded == orderRef
}
