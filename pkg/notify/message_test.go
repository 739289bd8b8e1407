package notify

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younsl/tagsched/internal/models"
)

var (
	kst     = time.FixedZone("KST", 9*60*60)
	testNow = time.Date(2024, 1, 3, 10, 0, 0, 0, kst)
	testAcc = models.Account{AccountID: "111111111111", Region: "ap-northeast-2", Description: "dev"}
)

func startChange(id string) models.Change {
	return models.Change{Action: models.ActionStart, Kind: models.KindCompute, ResourceID: id, TagSummary: "Name=web"}
}

func TestBuildText(t *testing.T) {
	got := BuildText(testAcc, []models.Change{startChange("i-1")}, testNow)

	want := strings.Join([]string{
		"[Scheduler] dev",
		"Time: 2024-01-03 10:00 KST",
		"Account: 111111111111 | Region: ap-northeast-2",
		"Changes (1):",
		"```",
		"+----------+------+-----+--------------+",
		"| Action   | Type | Id  | Tags/Details |",
		"+----------+------+-----+--------------+",
		"| 🟢 Start | EC2  | i-1 | Name=web     |",
		"+----------+------+-----+--------------+",
		"```",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestBuildTextTitleFallback(t *testing.T) {
	got := BuildText(models.Account{AccountID: "222222222222"}, nil, testNow)

	assert.Equal(t, "[Scheduler] 222222222222\nTime: 2024-01-03 10:00 KST\nAccount: 222222222222\nChanges (0):", got)
}

func TestBuildTelegram(t *testing.T) {
	acc := testAcc
	acc.Description = "dev <core> & ops"
	change := models.Change{Action: models.ActionStop, Kind: models.KindDatabaseCluster, ResourceID: "aurora", TagSummary: "Owner=<me>"}

	got := BuildTelegram(acc, []models.Change{change}, testNow)

	assert.True(t, strings.HasPrefix(got, "<b>[Scheduler] dev &lt;core&gt; &amp; ops</b>\n"))
	assert.Contains(t, got, "\n<pre>\n")
	assert.Contains(t, got, "Owner=&lt;me&gt;")
	assert.Contains(t, got, "RDS-Cluster")
	assert.True(t, strings.HasSuffix(got, "\n</pre>"))
}

func TestBuildSlack(t *testing.T) {
	changes := []models.Change{
		startChange("i-1"),
		{Action: models.ActionScale, Kind: models.KindAutoScalingGroup, ResourceID: "web", Details: "min=0 max=0 desired=0"},
		{Action: models.ActionStop, Kind: models.KindDatabaseInstance, ResourceID: "db-1"},
	}

	payload := BuildSlack(testAcc, changes, testNow)

	require.Len(t, payload.Blocks, 4+3+2)
	assert.Equal(t, "header", payload.Blocks[0].Type)
	assert.Equal(t, "Scheduler | dev", payload.Blocks[0].Text.Text)
	assert.Equal(t, []SlackText{
		{Type: "mrkdwn", Text: "*Time:* 2024-01-03 10:00 KST"},
		{Type: "mrkdwn", Text: "*Account:* 111111111111 | *Region:* ap-northeast-2"},
	}, payload.Blocks[1].Elements)
	assert.Equal(t, "divider", payload.Blocks[2].Type)
	assert.Equal(t, "*Changes (3):*", payload.Blocks[3].Text.Text)

	scale := payload.Blocks[6]
	assert.Equal(t, []SlackText{
		{Type: "mrkdwn", Text: "*Action*\n⚙️ Scale"},
		{Type: "mrkdwn", Text: "*Type*\nASG"},
		{Type: "mrkdwn", Text: "*Id*\n`web`"},
		{Type: "mrkdwn", Text: "*Tags/Details*\nmin=0 max=0 desired=0"},
	}, scale.Fields)
	assert.Equal(t, "*Tags/Details*\n-", payload.Blocks[8].Fields[3].Text)
	assert.Equal(t, BuildText(testAcc, changes, testNow), payload.Text)
}

func TestBuildSlackCondensed(t *testing.T) {
	var changes []models.Change
	for i := 0; i < 21; i++ {
		changes = append(changes, startChange(fmt.Sprintf("i-%02d", i)))
	}

	payload := BuildSlack(testAcc, changes, testNow)

	require.Len(t, payload.Blocks, 5)
	list := payload.Blocks[4].Text.Text
	assert.Equal(t, 21, strings.Count(list, "\n")+1)
	assert.True(t, strings.HasPrefix(list, "- 🟢 Start EC2 `i-00` - Name=web"))
}
