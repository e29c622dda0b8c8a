package middleware

import (
	"net/http"

	"github.com/unrolled/secure"
)

func SecurityHeaders(next http.Handler) http.Handler {
	return secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}).Handler(next)
}
