package backend

// DTO untuk kontrak API auth kampus (lihat tabel endpoint di dokumentasi
// backend). Field kosong tidak ikut dikirim.

type MessageResponse struct {
	Message string `json:"message"`
}

type User struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	Name           string `json:"name,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

type Picture struct {
	Filename string
	MIMEType string
	Data     []byte
}

type RegisterUserRequest struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	NIM         string `json:"nim,omitempty"`
	NIP         string `json:"nip,omitempty"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`

	// Picture dikirim sebagai field multipart "profilePicture", bukan JSON.
	Picture *Picture `json:"-"`
}

type RegisterUserResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

type LoginRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	RecaptchaToken string `json:"recaptchaToken"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
