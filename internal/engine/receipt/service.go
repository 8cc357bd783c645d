package receipt

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"
)

// Upload is the passport part of a submission.
type Upload struct {
	Filename string
	Body     io.Reader
}

// Receipt is a rendered document ready for download.
type Receipt struct {
	Filename string
	PDF      []byte
	Elapsed  time.Duration
}

type renderFunc func(*Request, *Artifacts) ([]byte, error)

type Service struct {
	store  *ArtifactStore
	render renderFunc
	qrSize int
}

func NewService(store *ArtifactStore, renderer *Renderer) *Service {
	return &Service{
		store:  store,
		render: renderer.Render,
		qrSize: defaultQRSize,
	}
}

// Generate turns one submission into a receipt. Uploads with a disallowed
// extension fail with ErrInvalidUpload before anything else is looked at;
// missing fields come back as validation.FieldErrors. Scratch images are
// removed before returning whatever the outcome.
func (s *Service) Generate(ctx context.Context, req *Request, up Upload) (*Receipt, error) {
	start := time.Now()

	if err := ValidatePassportFilename(up.Filename); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	passport, err := NormalizePassport(up.Body)
	if err != nil {
		return nil, err
	}

	qr, err := GenerateQRCode(req.QRPayload(), s.qrSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate qr code: %w", err)
	}

	set, err := s.store.Save(qr, passport)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := set.Remove(); err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("failed to remove receipt artifacts")
		}
	}()

	pdf, err := s.render(req, set)
	if err != nil {
		return nil, err
	}

	rc := &Receipt{
		Filename: req.FileName(),
		PDF:      pdf,
		Elapsed:  time.Since(start),
	}
	log.Ctx(ctx).Info().
		Str("regno", req.RegNo).
		Int("bytes", len(pdf)).
		Dur("elapsed", rc.Elapsed).
		Msg("receipt generated")
	return rc, nil
}
