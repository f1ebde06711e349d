package types

// FiberType tags a fiber direction attached to a node or element.
type FiberType uint8

const (
	Fiber1 FiberType = iota
	Fiber2
	Fiber3
	Fiber4
	Fiber5
	Fiber6
	Fiber7
	Fiber8
	Fiber9
	Cir
	Tan
	Rad
	Axi
	NumFiberTypes
)

var fiberKeys = [...]string{
	"FIBER1", "FIBER2", "FIBER3", "FIBER4", "FIBER5", "FIBER6", "FIBER7", "FIBER8", "FIBER9",
	"CIR", "TAN", "RAD", "AXI",
}

// Key is the dat token for this fiber type.
func (ft FiberType) Key() string { return fiberKeys[ft] }

func (ft FiberType) String() string { return fiberKeys[ft] }

var FiberNameMap = func() map[string]FiberType {
	m := make(map[string]FiberType, NumFiberTypes)
	for i, key := range fiberKeys {
		m[key] = FiberType(i)
	}
	return m
}()

// ParseFiberType reports whether key is a fiber token.
func ParseFiberType(key string) (ft FiberType, ok bool) {
	ft, ok = FiberNameMap[key]
	return
}
