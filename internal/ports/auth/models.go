package auth

// Claims representa la identidad resuelta desde un token de sesión.
// Se propaga por el context del request; nunca se vuelve a consultar la DB
// durante la vida del token (sin revocación).
type Claims struct {
	UserID   string
	Role     string
	FullName string
}
