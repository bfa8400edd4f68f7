package auth

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/sartorialco/menswear-api/merge"
	"github.com/sartorialco/menswear-api/models"
)

// GoogleUserLoginHandler verifies a Firebase ID token, reconciles any
// guest data trail into the authenticated user, and issues a session JWT.
// A failed merge never fails the login; unmerged guest data is picked up
// by a later login attempt.
func GoogleUserLoginHandler(db *gorm.DB, reconciler *merge.Reconciler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			IDToken string `json:"idToken"`
			GuestID string `json:"guest_id"`
		}

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IDToken == "" {
			http.Error(w, "Invalid request payload", http.StatusBadRequest)
			return
		}

		ctx := r.Context()

		// Verify Firebase token
		token, err := firebaseAuth.VerifyIDTokenAndCheckRevoked(ctx, req.IDToken)
		if err != nil {
			http.Error(w, "Invalid Firebase ID token", http.StatusUnauthorized)
			return
		}

		if token.Audience != projectID {
			http.Error(w, "Invalid token audience", http.StatusUnauthorized)
			return
		}

		// Extract user info
		email, _ := token.Claims["email"].(string)
		name, _ := token.Claims["name"].(string)
		picture, _ := token.Claims["picture"].(string)
		phone, _ := token.Claims["phone_number"].(string)
		firebaseUserID := token.UID

		// Fold guest cart, wishlist, orders, and any guest customer record
		// into this user. Best-effort: login proceeds either way.
		result, err := reconciler.Reconcile(ctx, merge.Request{
			AuthUserID:     firebaseUserID,
			Email:          email,
			Phone:          phone,
			GuestSessionID: req.GuestID,
		})
		if err != nil {
			log.Printf("⚠️ merge failed for user %s, will retry on next login: %v", firebaseUserID, err)
		}

		// Refresh profile fields from the Google token
		if result.CustomerRecordID != 0 {
			db.Model(&models.CustomerRecord{}).
				Where("id = ?", result.CustomerRecordID).
				Updates(models.CustomerRecord{Name: name, Picture: picture, Provider: "google"})
		}

		resp := map[string]interface{}{
			"message":            "Login successful",
			"merge":              result,
			"firebase_id":        firebaseUserID,
			"customer_record_id": result.CustomerRecordID,
			"token":              issueJWT(email, "user", firebaseUserID, name, picture),
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

// issueJWT generates a JWT token for a user
func issueJWT(email, role, userID, name, picture string) string {
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"role":    role,
		"name":    name,
		"picture": picture,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		return ""
	}

	return signedToken
}
