package ports

// PasswordHasher produces and verifies salted password hashes. Hash embeds a
// fresh random salt on every call, so two hashes of the same password differ.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}
