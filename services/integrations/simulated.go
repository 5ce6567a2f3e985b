package integrations

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"
)

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// Simulator acknowledges every delivery and submission with a synthetic
// reference. It implements both LetterDeliverer and FilingSubmitter.
type Simulator struct {
	Now       func() time.Time
	RandomRef func(n int) string
}

func NewSimulator() *Simulator {
	return &Simulator{Now: time.Now, RandomRef: randomBase36}
}

func (s *Simulator) Channel() string { return "simulated" }

// DeliverLetter returns a reference shaped like EP-<unix millis>-<9 chars>.
func (s *Simulator) DeliverLetter(ctx context.Context, letter LetterDelivery) Result {
	ref := fmt.Sprintf("EP-%d-%s", s.Now().UnixMilli(), s.RandomRef(9))
	log.Printf("[DELIVERY] Simulated E. pristatymas delivery of letter %s to %s: %s", letter.LetterID, letter.RecipientName, ref)
	return Result{Success: true, Reference: ref}
}

// SubmitFiling returns a court reference shaped like LT-<unix millis>-<6 CHARS>.
func (s *Simulator) SubmitFiling(ctx context.Context, filing FilingSubmission) Result {
	ref := fmt.Sprintf("LT-%d-%s", s.Now().UnixMilli(), strings.ToUpper(s.RandomRef(6)))
	log.Printf("[DELIVERY] Simulated e.teismas submission of filing %s to %s: %s", filing.FilingID, filing.CourtCode, ref)
	return Result{Success: true, Reference: ref}
}

func randomBase36(n int) string {
	max := big.NewInt(int64(len(base36Alphabet)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			idx = big.NewInt(int64(time.Now().UnixNano() % 36))
		}
		out[i] = base36Alphabet[idx.Int64()]
	}
	return string(out)
}
