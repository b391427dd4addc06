package shared

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/form"
	"github.com/gorilla/mux"
)

// Decoder decodes url.Values (query strings and form posts) into DTO structs.
var Decoder = form.NewDecoder()

var ErrMissingID = errors.New("id parameter is missing")

// ParseID extracts the {id} route variable.
func ParseID(r *http.Request) (string, error) {
	id := mux.Vars(r)["id"]
	if id == "" {
		return "", ErrMissingID
	}
	return id, nil
}

func Redirect(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusFound)
}

func SetFlash(w http.ResponseWriter, name string, value []byte) {
	http.SetCookie(w, &http.Cookie{
		Name:  name,
		Value: base64.URLEncoding.EncodeToString(value),
		Path:  "/",
	})
}

func SetFlashMap[K comparable, V any](w http.ResponseWriter, name string, value map[K]V) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	SetFlash(w, name, b)
	return nil
}
