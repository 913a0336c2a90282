package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Users() UserRepository
	Configs() ConfigRepository
	Wallets() WalletRepository
	Earnings() EarningRepository
	Withdrawals() WithdrawalRepository
}
