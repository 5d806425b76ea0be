package medications

// Kind define la forma del medicamento (para el ícono en el cliente).
// @Enum tablet, capsule, injection, drops, syrup, other
type Kind string

const (
	KindTablet    Kind = "tablet"
	KindCapsule   Kind = "capsule"
	KindInjection Kind = "injection"
	KindDrops     Kind = "drops"
	KindSyrup     Kind = "syrup"
	KindOther     Kind = "other"
)

func ValidKind(k Kind) bool {
	switch k {
	case KindTablet, KindCapsule, KindInjection, KindDrops, KindSyrup, KindOther:
		return true
	}
	return false
}
