package jobs

import (
	"fmt"
	"log"
	"net/url"
	"time"

	config "github.com/wamalwa9/karibu_travel/configs"
	"github.com/wamalwa9/karibu_travel/models"
	"github.com/wamalwa9/karibu_travel/notifications"
	"github.com/wamalwa9/karibu_travel/services"
	"github.com/wamalwa9/karibu_travel/utils"
)

// SendReviewRequests scans for trips whose service period has ended and
// that have not been asked for a review, and emails each one its review
// link. Safe to re-run: a trip only leaves the candidate set once its
// sent marker is durably written, and the token survives retries.
func SendReviewRequests() (sent int, errored int) {
	log.Println("Running job: SendReviewRequests...")

	// One clock read per run so every row sees the same cutoff.
	today := time.Now().UTC().Truncate(24 * time.Hour)
	baseURL := config.ConfigOr("SITE_BASE_URL", "https://kaributravel.example")

	for _, kind := range models.TripKinds {
		trips, err := services.EligibleForReviewRequest(kind, today)
		if err != nil {
			log.Printf("🔥 Failed to scan %s trips for review requests: %v", kind, err)
			errored++
			continue
		}

		for _, trip := range trips {
			if err := dispatchReviewRequest(trip, baseURL); err != nil {
				log.Printf("🔥 Review request for %s %s failed: %v", trip.Kind, trip.ShortCode, err)
				errored++
				continue
			}
			sent++
		}
	}

	if sent > 0 || errored > 0 {
		log.Printf("Review request run finished: %d sent, %d errored", sent, errored)
	}
	return sent, errored
}

// dispatchReviewRequest handles one trip: make sure a token is stored,
// send the email, then mark the trip as notified. The token write must
// land before the send so the emailed link always resolves; the marker
// is written only after the sender accepted the message.
func dispatchReviewRequest(trip *services.TripRecord, baseURL string) error {
	token := ""
	if trip.ReviewToken != nil {
		token = *trip.ReviewToken
	} else {
		fresh, err := utils.GenerateReviewToken()
		if err != nil {
			return fmt.Errorf("generate review token: %w", err)
		}
		token, err = services.AssignReviewToken(trip.Kind, trip.ID, fresh)
		if err != nil {
			return fmt.Errorf("persist review token: %w", err)
		}
		log.Printf("Issued review token %s for %s %s", utils.TokenPreview(token), trip.Kind, trip.ShortCode)
	}

	reviewLink := fmt.Sprintf("%s/review?kind=%s&token=%s",
		baseURL, url.QueryEscape(trip.Kind), url.QueryEscape(token))

	subject := fmt.Sprintf("How was your trip, %s?", trip.TravelerName)
	body := fmt.Sprintf(
		"<h1>Karibu! Tell us about your trip</h1>"+
			"<p>Hi %s,</p>"+
			"<p>We hope you enjoyed <b>%s</b> (reference %s). It would mean a lot if you "+
			"took a minute to rate your experience.</p>"+
			"<p><a href='%s'>Leave your review</a></p>"+
			"<p>Asante sana,<br>The Karibu Travel team</p>",
		trip.TravelerName, trip.Title, trip.ShortCode, reviewLink,
	)

	if err := notifications.SendEmail(trip.TravelerName, trip.TravelerEmail, subject, body); err != nil {
		return fmt.Errorf("send review request email: %w", err)
	}

	if err := services.MarkReviewEmailSent(trip.Kind, trip.ID, time.Now().UTC()); err != nil {
		// The email went out; without the marker the trip stays eligible
		// and the traveler may get a second request next run. Preferable
		// to never asking at all.
		log.Printf("⚠️ Sent review request for %s %s but failed to record it: %v", trip.Kind, trip.ShortCode, err)
	}

	return nil
}
