package receipt

import (
	"net/url"
	"strings"

	"bursar/internal/pkg/validation"
)

// Request carries the identity fields of one submission. It lives for the
// duration of a single HTTP call and is never persisted.
type Request struct {
	Gender    string `form:"gender" validate:"required,notblank"`
	Session   string `form:"session" validate:"required,notblank"`
	Level     string `form:"level" validate:"required,notblank"`
	Date      string `form:"date" validate:"required,notblank"`
	RegNo     string `form:"regno" validate:"required,notblank"`
	FullName  string `form:"fullname" validate:"required,notblank"`
	Dept      string `form:"dept" validate:"required,notblank"`
	Programme string `form:"programme" validate:"required,notblank"`
	ProgType  string `form:"progtype" validate:"required,notblank"`
	Phone     string `form:"phone" validate:"required,notblank"`
	RRR       string `form:"rrr" validate:"required,notblank"`
}

func RequestFromForm(form url.Values) *Request {
	return &Request{
		Gender:    form.Get("gender"),
		Session:   form.Get("session"),
		Level:     form.Get("level"),
		Date:      form.Get("date"),
		RegNo:     form.Get("regno"),
		FullName:  form.Get("fullname"),
		Dept:      form.Get("dept"),
		Programme: form.Get("programme"),
		ProgType:  form.Get("progtype"),
		Phone:     form.Get("phone"),
		RRR:       form.Get("rrr"),
	}
}

// Validate returns validation.FieldErrors naming every missing or blank field.
func (r *Request) Validate() error {
	return validation.Struct(r)
}

// QRPayload is the text encoded into the receipt's QR code.
func (r *Request) QRPayload() string {
	return r.RegNo + " - " + r.FullName
}

// FileName is the download name of the rendered receipt.
func (r *Request) FileName() string {
	return strings.ReplaceAll(r.RegNo, "/", "_") + "_receipt.pdf"
}
