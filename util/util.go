package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jinzhu/now"
	log "github.com/sirupsen/logrus"
	"github.com/ttacon/libphonenumber"
)

const DateLayout = "2006-01-02"

// defaultPhoneRegion is used for parsing phone numbers that carry no
// international prefix.
const defaultPhoneRegion = "US"

// GetPropertyValueAsString converts a raw property value from a vendor
// payload to string.
func GetPropertyValueAsString(value interface{}) string {
	if value == nil {
		return ""
	}

	switch valueType := value.(type) {
	case float32, float64:
		return fmt.Sprintf("%0.0f", value)
	case int, int32, int64:
		return fmt.Sprintf("%v", value)
	case string:
		return value.(string)
	case bool:
		return strconv.FormatBool(value.(bool))
	default:
		log.Error("Invalid value type on GetPropertyValueAsString : ", valueType)
		return ""
	}
}

// SanitizePhoneNumber normalizes a phone number to E.164. Numbers that
// cannot be parsed are returned as given, never dropped - phone is
// enrichment data and must not fail a sync.
func SanitizePhoneNumber(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	num, err := libphonenumber.Parse(phone, defaultPhoneRegion)
	if err != nil || !libphonenumber.IsValidNumber(num) {
		return phone
	}

	return libphonenumber.Format(num, libphonenumber.E164)
}

// DateStringFromTime returns the date portion of the given time in UTC.
func DateStringFromTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return now.New(t.UTC()).BeginningOfDay().Format(DateLayout)
}

// TimestampMillisToTime converts a vendor epoch-millis timestamp.
// Zero stays the zero time.
func TimestampMillisToTime(millis int64) time.Time {
	if millis == 0 {
		return time.Time{}
	}
	return time.Unix(millis/1000, (millis%1000)*int64(time.Millisecond)).UTC()
}
