package utils

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateReceiptNumber creates a cash receipt number with timestamp
func GenerateReceiptNumber() string {
	now := time.Now()

	// Format: CASH-YYYYMMDD-HHMMSS-RANDOM
	datePart := now.Format("20060102")
	timePart := now.Format("150405")
	randomPart := fmt.Sprintf("%04d", rand.Intn(10000))

	return fmt.Sprintf("CASH-%s-%s-%s", datePart, timePart, randomPart)
}
