package wizarderrors

import (
	"net/http"

	"github.com/hzqula/portal-gateway/internal/pkg/apperror"
)

var (
	ErrStepOrder = apperror.New(
		apperror.CodeConflict,
		"Langkah registrasi tidak sesuai urutan",
		http.StatusConflict,
	)

	ErrSubmitInFlight = apperror.New(
		apperror.CodeConflict,
		"Permintaan sebelumnya masih diproses",
		http.StatusConflict,
	)

	ErrCooldownActive = apperror.New(
		apperror.CodeTooManyReq,
		"Tunggu hitung mundur selesai sebelum kirim ulang kode",
		http.StatusTooManyRequests,
	)

	// ErrStale: response datang setelah user pindah step; hasilnya dibuang.
	ErrStale = apperror.New(
		apperror.CodeConflict,
		"Permintaan sudah tidak berlaku",
		http.StatusConflict,
	)
)
