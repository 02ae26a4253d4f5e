package model

// Etapa del flujo de producción posterior a la aprobación.
// Key es el estado actual y Next el siguiente; Label y DefaultLocation
// describen esa siguiente etapa para el panel del manager.
type Stage struct {
	Key             Status `json:"key"`
	Next            Status `json:"next"`
	Label           string `json:"label"`
	DefaultLocation string `json:"defaultLocation"`
}

var orderFlow = [...]Stage{
	{Key: StatusApproved, Next: StatusCuttingCompleted, Label: "Cutting Completed", DefaultLocation: "Cutting Section"},
	{Key: StatusCuttingCompleted, Next: StatusSewingStarted, Label: "Sewing Started", DefaultLocation: "Sewing Line"},
	{Key: StatusSewingStarted, Next: StatusFinishing, Label: "Finishing", DefaultLocation: "Finishing Section"},
	{Key: StatusFinishing, Next: StatusQCChecked, Label: "QC Checked", DefaultLocation: "QC Department"},
	{Key: StatusQCChecked, Next: StatusPacked, Label: "Packed", DefaultLocation: "Packaging Area"},
	{Key: StatusPacked, Next: StatusShipped, Label: "Shipped", DefaultLocation: "Dispatch Warehouse"},
}

// Flow devuelve una copia de la tabla, en orden de cadena.
func Flow() []Stage {
	out := make([]Stage, len(orderFlow))
	copy(out, orderFlow[:])
	return out
}

func LookupStage(key Status) (Stage, bool) {
	for _, s := range orderFlow {
		if s.Key == key {
			return s, true
		}
	}
	return Stage{}, false
}
