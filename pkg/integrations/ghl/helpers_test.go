package ghl

import (
	"encoding/json"
	"net/http"
)

func decodeBody(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}
