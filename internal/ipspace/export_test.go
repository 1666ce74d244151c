package ipspace

type Kind = kind

const (
	Single  = single
	Network = network
	Range   = addrRange
)

func (s Space) Kind() Kind {
	return s.kind
}
