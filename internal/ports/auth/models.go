package auth

// Claims es la identidad extraída del token. La app es personal: alcanza con
// saber quién es el dueño.
type Claims struct {
	UserID string
}
