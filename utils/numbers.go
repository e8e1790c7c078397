package utils

import (
	"math/rand"
	"time"
)

const numberCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func GenerateRandomString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = numberCharset[rand.Intn(len(numberCharset))]
	}
	return string(b)
}

func GenerateInvoiceNumber() string {
	return "INV-" + time.Now().Format("20060102") + "-" + GenerateRandomString(6)
}

// GenerateJobNumber issues repair order numbers for new jobs.
func GenerateJobNumber() string {
	return "RO-" + time.Now().Format("20060102") + "-" + GenerateRandomString(6)
}
