package auth

// LoginDTO carries the credentials posted to the login endpoint.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshTokenDTO carries the refresh token posted to the token exchange.
type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

// ValidationError reports a missing or malformed credential field. The
// handler maps it to a 400 without touching the AppError taxonomy.
type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

func (d LoginDTO) Validate() error {
	if d.Email == "" {
		return ValidationError{Msg: "email is required"}
	}
	if d.Password == "" {
		return ValidationError{Msg: "password is required"}
	}
	return nil
}

func (d RefreshTokenDTO) Validate() error {
	if d.RefreshToken == "" {
		return ValidationError{Msg: "refresh_token is required"}
	}
	return nil
}
