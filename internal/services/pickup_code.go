package services

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"feedinneed_backend/internal/models"

	qrcode "github.com/skip2/go-qrcode"
)

// Codes avoid lowercase so they survive being read over the phone.
const pickupCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const pickupCodeLength = 6

// GeneratePickupCode returns a 6-character confirmation code from [A-Z0-9].
func GeneratePickupCode() (string, error) {
	buf := make([]byte, pickupCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate pickup code: %w", err)
	}

	for i, b := range buf {
		buf[i] = pickupCodeAlphabet[int(b)%len(pickupCodeAlphabet)]
	}
	return string(buf), nil
}

// BuildQRArtifacts serializes the pickup payload and renders it as a QR PNG.
// The data string is what scanners submit back; the image is base64 for
// direct embedding in clients.
func BuildQRArtifacts(requestID, donationID, code string) (data string, imageBase64 string, err error) {
	payload := models.QRPayload{
		Type:       models.QRPayloadType,
		RequestID:  requestID,
		DonationID: donationID,
		Code:       code,
		Timestamp:  time.Now().Unix(),
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal QR payload: %w", err)
	}

	png, err := qrcode.Encode(string(raw), qrcode.Medium, 256)
	if err != nil {
		return "", "", fmt.Errorf("failed to render QR code: %w", err)
	}

	return string(raw), "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// ParseQRPayload decodes a scanned payload and checks it is ours.
func ParseQRPayload(data string) (*models.QRPayload, error) {
	var payload models.QRPayload
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		return nil, fmt.Errorf("malformed QR payload: %w", err)
	}
	if payload.Type != models.QRPayloadType {
		return nil, fmt.Errorf("unexpected QR payload type: %s", payload.Type)
	}
	return &payload, nil
}
