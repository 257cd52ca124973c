package mail

type ResetEmailData struct {
	Email     string
	Link      string
	ExpiresIn string
}

type SMTPSender struct {
	Host     string
	Port     int
	User     string
	Password string
}
