package enum

// CodePurposeEnum namespaces verification codes in the code store.
type CodePurposeEnum string

const (
	EMAIL_VERIFICATION CodePurposeEnum = "email-verification"
	PHONE_RESET        CodePurposeEnum = "phone-reset"
)

func (e CodePurposeEnum) ToString() string {
	return string(e)
}

func (e CodePurposeEnum) IsValid() bool {
	switch e {
	case EMAIL_VERIFICATION, PHONE_RESET, PHONE_RESET_GRANT:
		return true
	}
	return false
}

// PHONE_RESET_GRANT marks a phone whose reset code was confirmed; the
// stored value is the token the reset form must present.
const PHONE_RESET_GRANT CodePurposeEnum = "phone-reset-grant"

// NotificationChannelEnum is how a notification reaches its recipient.
type NotificationChannelEnum string

const (
	EMAIL_CHANNEL NotificationChannelEnum = "email"
	SMS_CHANNEL   NotificationChannelEnum = "sms"
)

func (e NotificationChannelEnum) ToString() string {
	return string(e)
}

func (e NotificationChannelEnum) IsValid() bool {
	switch e {
	case EMAIL_CHANNEL, SMS_CHANNEL:
		return true
	}
	return false
}
