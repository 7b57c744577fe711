package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind ditentukan sekali di boundary HTTP, layer di atas tinggal
// switch kind tanpa perlu inspeksi bentuk error lagi.
type ErrorKind int

const (
	// KindServer: server merespon dengan pesan error terstruktur.
	KindServer ErrorKind = iota
	// KindNetwork: request tidak sampai / tidak ada response.
	KindNetwork
	// KindUnknown: response ada tapi bentuknya tidak dikenali.
	KindUnknown
)

func (k ErrorKind) String() string {
	switch k {
	case KindServer:
		return "server"
	case KindNetwork:
		return "network"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("backend %s error (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("backend %s error: %s", e.Kind, e.Message)
}

// UserMessage adalah pesan yang layak ditampilkan ke user lewat
// notification sink.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindServer:
		return e.Message
	case KindNetwork:
		return "Tidak ada respon dari server. Periksa koneksi Anda dan coba lagi."
	default:
		return "Terjadi kesalahan. Silakan coba lagi."
	}
}

// UserMessage mengekstrak pesan user-facing dari error apapun yang keluar
// dari client ini.
func UserMessage(err error) string {
	var be *Error
	if errors.As(err, &be) {
		return be.UserMessage()
	}
	return "Terjadi kesalahan. Silakan coba lagi."
}

func IsUnauthorized(err error) bool {
	var be *Error
	return errors.As(err, &be) && be.Status == http.StatusUnauthorized
}
