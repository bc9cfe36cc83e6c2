package dto

// RTM セッションから受信した message イベントを表します。
// エンジンへそのまま渡され、post_reply / correct_answer / on_error の
// 各コールバックで元イベントとして返却されるペイロードでもあります
type MessagePayload struct {
	Type      string `json:"type"`                // "message" 固定
	User      string `json:"user"`                // 送信者のユーザーID
	Text      string `json:"text"`                // メッセージ本文
	Channel   string `json:"channel"`             // チャンネルID（管理者DMの場合あり）
	Timestamp string `json:"ts"`                  // メッセージTS（リアクション付与のキー）
	ThreadTs  string `json:"thread_ts,omitempty"` // スレッド内投稿の場合のみ
	SubType   string `json:"subtype,omitempty"`   // "bot_message" など
}
