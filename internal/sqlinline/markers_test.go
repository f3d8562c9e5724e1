package sqlinline

import (
	"regexp"
	"strings"
	"testing"
)

var markerLine = regexp.MustCompile(`^--sql [0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

var allStatements = map[string]string{
	"QInsertUser":                      QInsertUser,
	"QSelectUserByEmail":               QSelectUserByEmail,
	"QSelectUserByUserID":              QSelectUserByUserID,
	"QUpdateUser":                      QUpdateUser,
	"QDeleteUser":                      QDeleteUser,
	"QSelectUsernameByUserID":          QSelectUsernameByUserID,
	"QInsertMentorProfile":             QInsertMentorProfile,
	"QSelectMentorByUserID":            QSelectMentorByUserID,
	"QListMentors":                     QListMentors,
	"QInsertSession":                   QInsertSession,
	"QSelectSessionBySessionID":        QSelectSessionBySessionID,
	"QListSessionsByMentor":            QListSessionsByMentor,
	"QInsertAMASession":                QInsertAMASession,
	"QListAMASessions":                 QListAMASessions,
	"QSelectAMASessionBySessionID":     QSelectAMASessionBySessionID,
	"QUpdateAMASession":                QUpdateAMASession,
	"QDeleteAMASession":                QDeleteAMASession,
	"QInsertQuestionnaire":             QInsertQuestionnaire,
	"QListQuestionnairesByTime":        QListQuestionnairesByTime,
	"QListQuestionnairesByUpvotes":     QListQuestionnairesByUpvotes,
	"QSelectQuestionnaire":             QSelectQuestionnaire,
	"QUpvoteQuestionnaire":             QUpvoteQuestionnaire,
	"QInsertAnswer":                    QInsertAnswer,
	"QListAnswersByQuestion":           QListAnswersByQuestion,
	"QSelectAMASessionForRegistration": QSelectAMASessionForRegistration,
	"QCreateRegistration":              QCreateRegistration,
	"QCheckRegistration":               QCheckRegistration,
	"QListRegistrationsBySession":      QListRegistrationsBySession,
	"QInsertBooking":                   QInsertBooking,
	"QListBookings":                    QListBookings,
	"QSelectBookingByID":               QSelectBookingByID,
	"QListBookingsBySessionEmail":      QListBookingsBySessionEmail,
	"QSelectTokenAccount":              QSelectTokenAccount,
	"QInsertTokenAccount":              QInsertTokenAccount,
	"QUpdateTokenAccountCAS":           QUpdateTokenAccountCAS,
	"QListBookingsByEmail":             QListBookingsByEmail,
	"QSelectSessionForDashboard":       QSelectSessionForDashboard,
}

func TestEveryStatementCarriesAuditMarker(t *testing.T) {
	seen := map[string]string{}
	for name, stmt := range allStatements {
		first := strings.TrimSpace(strings.SplitN(strings.TrimLeft(stmt, "\n\r \t"), "\n", 2)[0])
		if !markerLine.MatchString(first) {
			t.Errorf("%s: first line %q is not a valid --sql marker", name, first)
			continue
		}
		if prev, dup := seen[first]; dup {
			t.Errorf("%s: marker already used by %s", name, prev)
		}
		seen[first] = name
	}
}
