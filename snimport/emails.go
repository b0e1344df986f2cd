package main

import (
	"bytes"
	"errors"
	"html/template"
	"path/filepath"

	sendgrid "github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

var templates *template.Template

type sgEmailFields struct {
	From    *sgmail.Email
	To      []*sgmail.Email
	Cc      []*sgmail.Email
	Bcc     []*sgmail.Email
	Subject string
}

const (
	SOCIAL_NETWORK_DISCONNECTED_TEMPLATE = "social_network_disconnected.html"
)

func initEmailTemplates() {
	absPath := "/etc/snimport/templates/*"
	if !env.Production {
		absPath, _ = filepath.Abs("./snimport/templates/*")
	}

	templates = template.Must(template.ParseGlob(absPath))
}

type SocialNetworkDisconnectedBody struct {
	UserName    string
	NetworkName string
}

// sent when a refresh token is rejected; the user has to go through the
// connect flow again before the next run picks them up
func sendReconnectNotice(cred UserSocialNetworkCredential, sn SocialNetwork) {
	thisUser, err := getUserByID(cred.UserID)
	if err != nil {
		ErrorLog.Println("sendReconnectNotice could not look up user: ", err)
		return
	}

	if thisUser.Email == "" {
		ErrorLog.Printf("sendReconnectNotice: user %d has no email on file\n", thisUser.ID)
		return
	}

	emailHeaderInfo := sgEmailFields{
		From:    &sgmail.Email{Name: "getTalent", Address: passwords.NO_REPLY_EMAILER_ADDRESS},
		To:      []*sgmail.Email{{Name: thisUser.FirstName + " " + thisUser.LastName, Address: thisUser.Email}},
		Bcc:     []*sgmail.Email{{Address: passwords.ADMIN_NOTIFICATION_EMAIL_ADDRESS}},
		Subject: "Action Required: Reconnect your " + sn.Name + " account",
	}

	body := SocialNetworkDisconnectedBody{
		UserName:    thisUser.FirstName,
		NetworkName: sn.Name,
	}

	err = sendTemplatedEmailSendGrid(emailHeaderInfo, SOCIAL_NETWORK_DISCONNECTED_TEMPLATE, body, "reconnect")
	if err != nil {
		ErrorLog.Println("sendReconnectNotice send err: ", err)
	}
}

func sendTemplatedEmailSendGrid(emailInfo sgEmailFields, templateToUse string, templateData interface{}, categories ...string) error {
	temp := templates.Lookup(templateToUse)
	var tpl bytes.Buffer
	if err := temp.Execute(&tpl, templateData); err != nil {
		return errors.New("template execute err: " + err.Error())
	}
	htmlContent := tpl.String()

	m := sgmail.NewV3Mail()

	m.SetFrom(emailInfo.From)

	content := sgmail.NewContent("text/html", htmlContent)
	m.AddContent(content)

	personalization := sgmail.NewPersonalization()
	personalization.AddTos(emailInfo.To...)
	personalization.AddCCs(emailInfo.Cc...)
	personalization.AddBCCs(emailInfo.Bcc...)
	personalization.Subject = emailInfo.Subject

	m.AddPersonalizations(personalization)

	m.AddCategories(categories...)

	request := sendgrid.GetRequest(passwords.SG_EMAILER_PASSWORD, "/v3/mail/send", "https://api.sendgrid.com")
	request.Method = "POST"
	request.Body = sgmail.GetRequestBody(m)
	_, err := sendgrid.API(request)
	if err != nil {
		return errors.New("err SENDGRID API request: " + err.Error())
	}

	return nil
}
