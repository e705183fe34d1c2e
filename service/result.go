package service

// ErrorKind tags why an authentication call failed. The zero value means success.
type ErrorKind string

const (
	KindNone                    ErrorKind = ""
	KindDuplicateUser           ErrorKind = "DuplicateUser"
	KindCredentialCreationError ErrorKind = "CredentialCreationError"
	KindUserNotFound            ErrorKind = "UserNotFound"
	KindInvalidPassword         ErrorKind = "InvalidPassword"
	KindInvalidToken            ErrorKind = "InvalidToken"
	KindTokenNotExpired         ErrorKind = "TokenNotExpired"
	KindRefreshTokenNotFound    ErrorKind = "RefreshTokenNotFound"
	KindRefreshTokenExpired     ErrorKind = "RefreshTokenExpired"
	KindRefreshTokenInvalidated ErrorKind = "RefreshTokenInvalidated"
	KindRefreshTokenUsed        ErrorKind = "RefreshTokenUsed"
	KindRefreshTokenMismatch    ErrorKind = "RefreshTokenMismatch"
	// KindInternal covers store or signing faults that are not the caller's doing.
	KindInternal ErrorKind = "Internal"
)

var kindMessages = map[ErrorKind]string{
	KindDuplicateUser:           "User with provided email already exists.",
	KindCredentialCreationError: "User could not be created.",
	KindUserNotFound:            "User with provided email does not exist.",
	KindInvalidPassword:         "Incorrect username or password.",
	KindInvalidToken:            "Invalid token provided.",
	KindTokenNotExpired:         "The token has not expired yet.",
	KindRefreshTokenNotFound:    "This refresh token does not exist.",
	KindRefreshTokenExpired:     "This refresh token has expired.",
	KindRefreshTokenInvalidated: "This refresh token has been invalidated.",
	KindRefreshTokenUsed:        "This refresh token has been used.",
	KindRefreshTokenMismatch:    "This refresh token does not match JWT.",
	KindInternal:                "An internal error occurred. Please try again later.",
}

// AuthResult is the outcome of Register, Login and RefreshToken. Business
// failures are reported here rather than as Go errors.
type AuthResult struct {
	Success       bool
	Token         string
	RefreshToken  string
	Kind          ErrorKind
	ErrorMessages []string
}

func succeeded(token, refreshToken string) AuthResult {
	return AuthResult{Success: true, Token: token, RefreshToken: refreshToken}
}

// failed builds a failure result; without explicit messages the kind's
// default message is used.
func failed(kind ErrorKind, messages ...string) AuthResult {
	if len(messages) == 0 {
		messages = []string{kindMessages[kind]}
	}
	return AuthResult{Kind: kind, ErrorMessages: messages}
}
