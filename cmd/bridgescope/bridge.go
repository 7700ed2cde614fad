package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bridgeScope/internal/bridge"
	"bridgeScope/internal/chain"
	"bridgeScope/internal/chains"
	"bridgeScope/internal/codec"
	"bridgeScope/internal/config"
	"bridgeScope/internal/delivery"
)

func runWrap(cmd *cobra.Command, _ []string) error {
	return runBridgeOp(cmd, true)
}

func runUnwrap(cmd *cobra.Command, _ []string) error {
	return runBridgeOp(cmd, false)
}

func runBridgeOp(cmd *cobra.Command, wrap bool) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadBridge(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, dest, err := resolveRoute(cfg, wrap)
	if err != nil {
		return err
	}

	amount := codec.ParseUnits(cfg.Amount, codec.TokenDecimals)
	if amount == nil || amount.Sign() <= 0 {
		return fmt.Errorf("invalid amount: %q", cfg.Amount)
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return fmt.Errorf("parse private key: %w", err)
	}

	client, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("dial rpc: %w", err)
	}
	defer client.Close()

	if client.ChainID().Uint64() != source.ChainID {
		return fmt.Errorf("rpc chain id %d does not match %s (%d)", client.ChainID().Uint64(), source.Name, source.ChainID)
	}

	signer := chain.NewSigner(client, key)
	wallet := signer.Address()

	recipient := wallet
	if cfg.Recipient != "" {
		if !common.IsHexAddress(cfg.Recipient) {
			return fmt.Errorf("invalid recipient address: %s", cfg.Recipient)
		}
		recipient = common.HexToAddress(cfg.Recipient)
	}

	poller, cleanup, err := newDeliveryPoller(ctx, cfg, dest, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	orch := bridge.NewOrchestrator(signer, poller, source, dest, logger)
	orch.OnTransition = func(state bridge.State) {
		logger.Info("operation state", zap.String("state", string(state)))
	}
	orch.RefreshBalances = func(ctx context.Context) {
		balance, err := signer.TokenBalance(ctx, source.Token, wallet)
		if err != nil {
			logger.Warn("balance refresh failed", zap.Error(err))
			return
		}
		logger.Info("balance refreshed",
			zap.String("chain", source.Name),
			zap.String("token", source.TokenSymbol),
			zap.String("balance", codec.AmountString(balance)),
		)
	}

	req := bridge.Request{Wallet: wallet, Recipient: recipient, Amount: amount}

	var result bridge.Result
	if wrap {
		result, err = orch.Wrap(ctx, req)
	} else {
		result, err = orch.Unwrap(ctx, req)
	}
	if err != nil {
		return err
	}

	logger.Info("operation finished",
		zap.String("state", string(result.State)),
		zap.String("tx_hash", result.TxHash.Hex()),
		zap.String("message_id", result.Message.ID.Hex()),
		zap.Bool("delivered", result.Delivered),
	)
	if !result.Delivered {
		return fmt.Errorf("delivery not confirmed for message %s", result.Message.ID.Hex())
	}
	return nil
}

func runTrack(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadBridge(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	if cfg.MessageID == "" {
		return fmt.Errorf("message-id is required")
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dest, err := chains.ByName(cfg.Dest)
	if err != nil {
		return err
	}

	poller, cleanup, err := newDeliveryPoller(ctx, cfg, dest, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	id := common.HexToHash(cfg.MessageID)
	delivered, err := poller.WaitForDelivery(ctx, id)
	if err != nil {
		return err
	}
	if !delivered {
		return fmt.Errorf("delivery not confirmed for message %s", id.Hex())
	}
	logger.Info("message delivered", zap.String("message_id", id.Hex()))
	return nil
}

// newDeliveryPoller prefers the relayer status API when configured and falls
// back to the destination mailbox's delivered(bytes32) check. The returned
// cleanup closes the destination RPC client when one was dialed.
func newDeliveryPoller(ctx context.Context, cfg config.BridgeConfig, dest chains.Config, logger *zap.Logger) (*delivery.Poller, func(), error) {
	var lookup delivery.StatusFunc
	cleanup := func() {}
	if cfg.StatusURL != "" {
		lookup = delivery.NewStatusClient(cfg.StatusURL, 0).Lookup
	} else {
		if cfg.DestRPCURL == "" {
			return nil, nil, fmt.Errorf("dest-rpc or status-url is required to track delivery")
		}
		destClient, err := chain.NewClient(ctx, cfg.DestRPCURL)
		if err != nil {
			return nil, nil, fmt.Errorf("dial destination rpc: %w", err)
		}
		lookup = delivery.NewOnChainSource(destClient, dest.Mailbox).Lookup
		cleanup = destClient.Close
	}

	poller := delivery.NewPoller(lookup, logger)
	poller.Interval = cfg.PollInterval
	poller.MaxAttempts = cfg.MaxAttempts
	return poller, cleanup, nil
}

func resolveRoute(cfg config.BridgeConfig, wrap bool) (chains.Config, chains.Config, error) {
	if wrap {
		// Wrap always originates on the home chain.
		source := chains.Home()
		if cfg.Source != "" && !strings.EqualFold(cfg.Source, source.Name) {
			return chains.Config{}, chains.Config{}, fmt.Errorf("wrap must originate on %s", source.Name)
		}
		dest, err := chains.ByName(cfg.Dest)
		if err != nil {
			return chains.Config{}, chains.Config{}, err
		}
		if dest.Home {
			return chains.Config{}, chains.Config{}, fmt.Errorf("wrap destination must be a remote chain")
		}
		return source, dest, nil
	}

	// Unwrap burns on a remote chain and releases on the home chain.
	source, err := chains.ByName(cfg.Source)
	if err != nil {
		return chains.Config{}, chains.Config{}, err
	}
	if source.Home {
		return chains.Config{}, chains.Config{}, fmt.Errorf("unwrap must originate on a remote chain")
	}
	dest := chains.Home()
	if cfg.Dest != "" && !strings.EqualFold(cfg.Dest, dest.Name) {
		return chains.Config{}, chains.Config{}, fmt.Errorf("unwrap destination must be %s", dest.Name)
	}
	return source, dest, nil
}
