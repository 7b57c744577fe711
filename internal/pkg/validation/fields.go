package validation

// FieldErrors: pelanggaran validasi client-side, nama field -> pesan.
// Tidak pernah menyentuh network; handler merendernya sebagai details.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	return "validation failed"
}
