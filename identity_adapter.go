package social

// identityAdapter exposes an Account through the Identity interface.
type identityAdapter struct {
	account *Account
}

// NewIdentity wraps an Account for callers that need an Identity.
func NewIdentity(account *Account) Identity {
	return &identityAdapter{account: account}
}

func (i *identityAdapter) ID() string {
	if i.account == nil {
		return ""
	}
	return i.account.ID.String()
}

func (i *identityAdapter) Username() string {
	if i.account == nil {
		return ""
	}
	return i.account.Username
}

func (i *identityAdapter) Email() string {
	if i.account == nil {
		return ""
	}
	return i.account.Email
}

func (i *identityAdapter) Role() string {
	if i.account == nil {
		return ""
	}
	return i.account.Role()
}
