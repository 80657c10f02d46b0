package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gorilla/mux"

	"github.com/Deepayan-S/FoodScanner/app"
	"github.com/Deepayan-S/FoodScanner/lookup"
	"github.com/Deepayan-S/FoodScanner/ui/presenter"
)

// formField is the multipart field carrying the uploaded photo.
const formField = "image"

var barcodePattern = regexp.MustCompile(`^[0-9A-Za-z\-\.\$/\+%]{1,64}$`)

// ScanHandler accepts a multipart upload (field "image") or a raw image
// body and answers with the rendered scan.
func (a *API) ScanHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.maxUpload)
	name, data, err := a.readUpload(r)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, "image exceeds "+humanize.IBytes(uint64(a.maxUpload)))
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	report := a.scanner.ScanAndLookup(r.Context(), app.BytesLoader{Label: name, Data: data})
	vm := presenter.FromReport(report)
	writeJSON(w, statusFor(vm), vm)
}

func (a *API) readUpload(r *http.Request) (string, []byte, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(a.maxUpload); err != nil {
			return "", nil, err
		}
		f, hdr, err := r.FormFile(formField)
		if err != nil {
			return "", nil, errors.New(`missing form file "image"`)
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		return hdr.Filename, data, err
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return "", nil, err
	}
	if len(data) == 0 {
		return "", nil, errors.New("empty request body")
	}
	return "upload", data, nil
}

// ProductHandler looks a barcode up without scanning.
func (a *API) ProductHandler(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["barcode"]
	if !barcodePattern.MatchString(code) {
		writeError(w, http.StatusBadRequest, "invalid barcode")
		return
	}
	p, err := a.products.Lookup(r.Context(), code)
	var card *lookup.Card
	if err == nil {
		c := lookup.NewCard(p)
		card = &c
	}
	vm := presenter.FromLookup(code, card, err)
	writeJSON(w, statusFor(vm), vm)
}

func statusFor(vm presenter.ViewModel) int {
	switch vm.Status {
	case presenter.StatusProductNotFound:
		return http.StatusNotFound
	case presenter.StatusLookupFailed:
		return http.StatusBadGateway
	case presenter.StatusError:
		return http.StatusUnprocessableEntity
	}
	return http.StatusOK
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
