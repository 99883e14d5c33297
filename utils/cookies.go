package utils

import (
	"net/http"

	"github.com/gorilla/securecookie"
)

// CookieCutter encodes and decodes the login cookie. Previous holds the
// last rotated key pair so outstanding sessions survive a key rotation.
type CookieCutter struct {
	Previous *securecookie.SecureCookie
	Current  *securecookie.SecureCookie
}

type cookies struct {
	Login string
}

// Cookies is cookie name enum
var Cookies = cookies{
	Login: "login",
}

func (cc *CookieCutter) SetSecureCookie(w http.ResponseWriter, name string, value map[string]string, maxAge int) error {
	encoded, err := securecookie.EncodeMulti(name, value, cc.Current)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    encoded,
		Path:     "/",
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
	return nil
}

func UnsetCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// GetSecureCookie decodes with the current keys first, then the previous
func (cc *CookieCutter) GetSecureCookie(r *http.Request, name string) (map[string]string, error) {
	cookie, err := r.Cookie(name)
	if err != nil {
		return nil, err
	}
	value := make(map[string]string)
	if err := securecookie.DecodeMulti(name, cookie.Value, &value, cc.Current, cc.Previous); err != nil {
		return nil, err
	}
	return value, nil
}
