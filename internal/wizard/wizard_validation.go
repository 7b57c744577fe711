package wizard

import (
	"net/mail"
	"strings"

	"github.com/hzqula/portal-gateway/internal/pkg/validation"
)

const (
	studentSuffix  = "@student.unri.ac.id"
	lecturerSuffix = "@lecturer.unri.ac.id"
)

// RoleForEmail menebak role dari suffix domain. Dihitung ulang setiap email
// berubah, tidak pernah di-set manual.
func RoleForEmail(email string) Role {
	lower := strings.ToLower(strings.TrimSpace(email))
	switch {
	case strings.HasSuffix(lower, studentSuffix):
		return RoleStudent
	case strings.HasSuffix(lower, lecturerSuffix):
		return RoleLecturer
	default:
		return RoleUnknown
	}
}

func validateEmail(email string) validation.FieldErrors {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return validation.FieldErrors{"email": "Email wajib diisi"}
	}
	if _, err := mail.ParseAddress(trimmed); err != nil {
		return validation.FieldErrors{"email": "Format email tidak valid"}
	}
	if RoleForEmail(trimmed) == RoleUnknown {
		return validation.FieldErrors{"email": "Gunakan email kampus (@student.unri.ac.id atau @lecturer.unri.ac.id)"}
	}
	return nil
}

func validateOTP(code string) validation.FieldErrors {
	if len(code) != 6 || !allDigits(code) {
		return validation.FieldErrors{"otp": "Kode verifikasi harus 6 digit angka"}
	}
	return nil
}

// validateDetails mengecek semua field secara independen; error bisa lebih
// dari satu sekaligus.
func validateDetails(d Draft) validation.FieldErrors {
	errs := validation.FieldErrors{}

	if strings.TrimSpace(d.Name) == "" {
		errs["name"] = "Nama wajib diisi"
	}

	hasNIM := d.NIM != ""
	hasNIP := d.NIP != ""
	switch {
	case hasNIM && hasNIP:
		errs["identifier"] = "Isi salah satu saja: NIM atau NIP"
	case !hasNIM && !hasNIP:
		errs["identifier"] = "NIM atau NIP wajib diisi"
	case hasNIM && (!allDigits(d.NIM) || len(d.NIM) < 8):
		errs["nim"] = "NIM harus angka, minimal 8 digit"
	case hasNIP && (!allDigits(d.NIP) || len(d.NIP) < 8):
		errs["nip"] = "NIP harus angka, minimal 8 digit"
	}

	phone := d.PhoneNumber
	if len(phone) < 10 || len(phone) > 13 || !strings.HasPrefix(phone, "08") || !allDigits(phone) {
		errs["phoneNumber"] = "Nomor HP harus 10-13 digit dan diawali 08"
	}

	if len(d.Password) < 8 {
		errs["password"] = "Password minimal 8 karakter"
	}
	// Mismatch dilaporkan di confirmPassword, bukan di password
	if d.ConfirmPassword != d.Password {
		errs["confirmPassword"] = "Konfirmasi password tidak sama"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

const maxPictureBytes = 2 << 20 // 2 MiB

var allowedPictureMIME = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
}

// validatePicture jalan saat file dipilih, bukan saat submit. File yang
// ditolak tidak pernah jadi profilePicture aktif.
func validatePicture(mimeType string, size int) validation.FieldErrors {
	if size > maxPictureBytes {
		return validation.FieldErrors{"profilePicture": "Ukuran file maksimal 2 MB"}
	}
	if !allowedPictureMIME[strings.ToLower(mimeType)] {
		return validation.FieldErrors{"profilePicture": "Format file harus JPG, JPEG, atau PNG"}
	}
	return nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
